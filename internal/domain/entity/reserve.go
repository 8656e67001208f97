package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una seña.
const (
	ReserveStatusReserved  = "reserved"
	ReserveStatusCompleted = "completed"
	ReserveStatusCancelled = "cancelled"
)

// Reserve seña de un producto. Los montos están en USD.
// Mientras Status == reserved el stock del producto ya fue descontado por Quantity.
type Reserve struct {
	ID                   string
	Date                 time.Time
	ExpirationDate       time.Time
	CustomerID           string
	CustomerName         string
	CustomerDNI          string
	ProductID            string
	ProductName          string
	ProductPrice         decimal.Decimal
	ProductStockSnapshot int
	ProductCost          decimal.Decimal
	ProductCategory      string
	Provider             string
	Store                string
	Quantity             int
	DownPayment          decimal.Decimal
	RemainingAmount      decimal.Decimal
	Status               string
	CompletedAt          *time.Time
	CancelledAt          *time.Time
	SaleID               string
}

// IsExpired estado derivado, solo de lectura: reservada y vencida. No modifica Status.
func (r *Reserve) IsExpired(now time.Time) bool {
	return r.Status == ReserveStatusReserved && now.After(r.ExpirationDate)
}

// CanTransition reservada es el único estado con salidas.
func (r *Reserve) CanTransition(to string) bool {
	if r.Status != ReserveStatusReserved {
		return false
	}
	return to == ReserveStatusCompleted || to == ReserveStatusCancelled
}
