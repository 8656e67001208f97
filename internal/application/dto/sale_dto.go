package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea del carrito. UnitPrice nil = precio de lista del producto; 0 = regalo.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Currency  string           `json:"currency,omitempty" validate:"omitempty,oneof=ARS USD"`
}

// PaymentSplit montos del pago múltiple (ARS salvo CashUSDAmount).
type PaymentSplit struct {
	CashAmount     decimal.Decimal `json:"cash_amount"`
	TransferAmount decimal.Decimal `json:"transfer_amount"`
	CardAmount     decimal.Decimal `json:"card_amount"`
	CashUSDAmount  decimal.Decimal `json:"cash_usd_amount"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID    string            `json:"customer_id,omitempty"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=efectivo efectivo_usd tarjeta transferencia transferencia_usdt multiple"`
	Split         *PaymentSplit     `json:"split,omitempty"`
	Store         string            `json:"store,omitempty" validate:"omitempty,oneof=local1 local2"`
}

// SaleItemResponse línea de una venta.
type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Cost        decimal.Decimal `json:"cost"`
	Provider    string          `json:"provider"`
	Profit      decimal.Decimal `json:"profit"`
	Consignment bool            `json:"consignment,omitempty"`
}

// SaleResponse venta persistida.
type SaleResponse struct {
	ID              string             `json:"id"`
	Date            time.Time          `json:"date"`
	CustomerID      string             `json:"customer_id,omitempty"`
	Items           []SaleItemResponse `json:"items"`
	PaymentMethod   string             `json:"payment_method"`
	CashAmount      *decimal.Decimal   `json:"cash_amount,omitempty"`
	TransferAmount  *decimal.Decimal   `json:"transfer_amount,omitempty"`
	CardAmount      *decimal.Decimal   `json:"card_amount,omitempty"`
	CashUSDAmount   *decimal.Decimal   `json:"cash_usd_amount,omitempty"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	TotalFormatted  string             `json:"total_formatted"`
	USDRate         decimal.Decimal    `json:"usd_rate"`
	Store           string             `json:"store"`
	Source          string             `json:"source"`
	ReserveID       string             `json:"reserve_id,omitempty"`
	DeletedProducts []string           `json:"deleted_products,omitempty"`
}

// SaleListResponse listado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
