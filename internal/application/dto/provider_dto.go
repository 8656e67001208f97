package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProviderRequest body para POST /api/providers.
type CreateProviderRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Phone string `json:"phone" validate:"max=50"`
}

// AddProviderTransactionRequest body para POST /api/providers/:id/transactions.
type AddProviderTransactionRequest struct {
	Type   string          `json:"type" validate:"required,oneof=debt payment"`
	Amount decimal.Decimal `json:"amount"`
	Detail string          `json:"detail" validate:"max=500"`
}

// ProviderResponse proveedor con saldo derivado (Σdeuda − Σpago).
type ProviderResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProviderTransactionResponse movimiento con saldo acumulado hasta ese punto.
type ProviderTransactionResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Detail         string          `json:"detail,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// ProviderLedgerResponse cuenta corriente completa.
type ProviderLedgerResponse struct {
	Provider     ProviderResponse              `json:"provider"`
	Transactions []ProviderTransactionResponse `json:"transactions"`
}
