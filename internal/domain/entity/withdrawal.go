package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cajas y métodos de retiro.
const (
	BoxAccessories = "accessories"
	BoxCellphones  = "cellphones"

	WithdrawalCash     = "cash"
	WithdrawalTransfer = "transfer"
)

// CashWithdrawal retiro de dinero de una caja. Solo se agregan; no modifican ventas.
// Amount está en Currency (ARS por defecto).
type CashWithdrawal struct {
	ID        string
	Box       string
	Method    string
	Amount    decimal.Decimal
	Currency  string
	Note      string
	Timestamp time.Time
	Store     string
	CreatedBy string
}
