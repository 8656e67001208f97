package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago.
const (
	PaymentCash         = "efectivo"
	PaymentCashUSD      = "efectivo_usd"
	PaymentCard         = "tarjeta"
	PaymentTransfer     = "transferencia"
	PaymentTransferUSDT = "transferencia_usdt"
	PaymentMultiple     = "multiple"
)

// Origen de la venta.
const (
	SaleSourcePOS         = "pos"
	SaleSourceReservation = "reservation"
	SaleSourceConsignment = "consignment"
)

// IsPaymentMethod valida el medio de pago.
func IsPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCashUSD, PaymentCard, PaymentTransfer, PaymentTransferUSDT, PaymentMultiple:
		return true
	}
	return false
}

// IsCashMethod efectivo en cualquier moneda.
func IsCashMethod(m string) bool {
	return strings.HasPrefix(m, PaymentCash)
}

// IsBankMethod medios que contienen "transfer".
func IsBankMethod(m string) bool {
	return strings.Contains(m, "transfer")
}

// SaleItem línea de venta. Cost y Provider son una foto al momento de vender.
type SaleItem struct {
	ProductID   string
	ProductName string
	Category    string
	Quantity    int
	Price       decimal.Decimal // precio unitario en Currency
	Currency    string
	Cost        decimal.Decimal // costo unitario en Currency
	Provider    string
	Consignment bool
}

// Subtotal precio × cantidad en la moneda de la línea.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalCost costo × cantidad en la moneda de la línea.
func (i SaleItem) TotalCost() decimal.Decimal {
	return i.Cost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Sale venta persistida. Inmutable: no existen operaciones de actualización ni borrado.
// TotalAmount está en ARS; los montos parciales solo se completan con PaymentMultiple.
type Sale struct {
	ID             string
	Date           time.Time
	CustomerID     string
	Items          []SaleItem
	PaymentMethod  string
	CashAmount     *decimal.Decimal
	TransferAmount *decimal.Decimal
	CardAmount     *decimal.Decimal
	CashUSDAmount  *decimal.Decimal
	TotalAmount    decimal.Decimal
	USDRate        decimal.Decimal
	Store          string
	Source         string
	ReserveID      string
	CreatedBy      string
}
