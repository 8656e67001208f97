package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SetRateRequest body para PUT /api/rates/usd.
type SetRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

// RateResponse cotización vigente. Known=false significa que no hay cotización utilizable.
// Stale indica que la actualización externa falló y se conserva el valor anterior.
type RateResponse struct {
	Rate      decimal.Decimal `json:"rate"`
	Known     bool            `json:"known"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
	Stale     bool            `json:"stale,omitempty"`
}
