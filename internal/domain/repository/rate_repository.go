package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateRepository cotización USD→ARS persistida (config/usdRate).
type RateRepository interface {
	// GetUSDRate devuelve ok=false si nunca se cargó.
	GetUSDRate(ctx context.Context) (rate decimal.Decimal, updatedAt time.Time, ok bool, err error)
	SetUSDRate(ctx context.Context, rate decimal.Decimal, updatedAt time.Time) error
}
