package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateJblRequest body para POST /api/jbl.
type CreateJblRequest struct {
	Name      string          `json:"name" validate:"required,max=200"`
	Model     string          `json:"model" validate:"max=100"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency" validate:"required,oneof=ARS USD"`
	Cost      decimal.Decimal `json:"cost"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	StockMode string          `json:"stock_mode" validate:"required,oneof=inventory consignment"`
	Store     string          `json:"store" validate:"required,oneof=local1 local2"`
}

// JblQuantityRequest body para /sell y /load.
type JblQuantityRequest struct {
	Quantity      int              `json:"quantity" validate:"min=1"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	PaymentMethod string           `json:"payment_method,omitempty" validate:"omitempty,oneof=efectivo efectivo_usd tarjeta transferencia transferencia_usdt multiple"`
	Split         *PaymentSplit    `json:"split,omitempty"`
}

// JblResponse parlante JBL.
type JblResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Model             string          `json:"model"`
	Price             decimal.Decimal `json:"price"`
	Currency          string          `json:"currency"`
	Cost              decimal.Decimal `json:"cost"`
	QuantityLoaded    int             `json:"quantity_loaded"`
	AvailableQuantity int             `json:"available_quantity"`
	SoldQuantity      int             `json:"sold_quantity"`
	StockMode         string          `json:"stock_mode"`
	LinkedProductID   string          `json:"linked_product_id,omitempty"`
	Store             string          `json:"store"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// JblSellResponse parlante actualizado y venta emitida.
type JblSellResponse struct {
	Product JblResponse  `json:"product"`
	Sale    SaleResponse `json:"sale"`
}
