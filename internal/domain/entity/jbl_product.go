package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de stock JBL.
const (
	StockModeInventory   = "inventory"
	StockModeConsignment = "consignment"
)

// JblProduct parlante JBL. En modo inventory existe un Product espejo (LinkedProductID) cuyo stock
// acompaña cada venta; en consignment no hay espejo y las ventas no tocan el inventario general.
type JblProduct struct {
	ID                string
	Name              string
	Model             string
	Price             decimal.Decimal
	Currency          string
	Cost              decimal.Decimal
	QuantityLoaded    int
	AvailableQuantity int
	SoldQuantity      int
	StockMode         string
	LinkedProductID   string
	Store             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Balanced verifica QuantityLoaded = AvailableQuantity + SoldQuantity.
func (j *JblProduct) Balanced() bool {
	return j.QuantityLoaded == j.AvailableQuantity+j.SoldQuantity && j.AvailableQuantity >= 0 && j.SoldQuantity >= 0
}
