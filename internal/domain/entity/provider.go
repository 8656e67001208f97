package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción con proveedores.
const (
	ProviderTxDebt    = "debt"
	ProviderTxPayment = "payment"
)

// Provider proveedor de mercadería.
type Provider struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}

// ProviderTransaction movimiento de cuenta corriente. Solo se agregan.
type ProviderTransaction struct {
	ID         string
	ProviderID string
	Type       string
	Amount     decimal.Decimal
	Detail     string
	CreatedAt  time.Time
	CreatedBy  string
}

// ProviderBalance Σdeuda − Σpago, siempre recalculado desde el historial completo.
func ProviderBalance(txs []*ProviderTransaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case ProviderTxDebt:
			balance = balance.Add(tx.Amount)
		case ProviderTxPayment:
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}
