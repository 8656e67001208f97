package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReserveRequest body para POST /api/reserves. Montos en USD.
// ProductPrice nil = precio del producto (convertido a USD si está en ARS).
type CreateReserveRequest struct {
	ProductID      string           `json:"product_id" validate:"required"`
	Quantity       int              `json:"quantity" validate:"min=1"`
	DownPayment    decimal.Decimal  `json:"down_payment"`
	ProductPrice   *decimal.Decimal `json:"product_price,omitempty"`
	CustomerID     string           `json:"customer_id,omitempty"`
	CustomerName   string           `json:"customer_name" validate:"required,max=200"`
	CustomerDNI    string           `json:"customer_dni" validate:"max=20"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
}

// CompleteReserveRequest body para POST /api/reserves/:id/complete.
type CompleteReserveRequest struct {
	PaymentMethod string        `json:"payment_method" validate:"required,oneof=efectivo efectivo_usd tarjeta transferencia transferencia_usdt multiple"`
	Split         *PaymentSplit `json:"split,omitempty"`
}

// ReserveResponse seña. Expired es derivado (reservada y vencida) y no cambia el estado guardado.
type ReserveResponse struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	ExpirationDate  time.Time       `json:"expiration_date"`
	CustomerID      string          `json:"customer_id,omitempty"`
	CustomerName    string          `json:"customer_name"`
	CustomerDNI     string          `json:"customer_dni"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductPrice    decimal.Decimal `json:"product_price"`
	ProductStock    int             `json:"product_stock"`
	Quantity        int             `json:"quantity"`
	DownPayment     decimal.Decimal `json:"down_payment"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
	Expired         bool            `json:"expired"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	SaleID          string          `json:"sale_id,omitempty"`
	Store           string          `json:"store"`
}

// CompleteReserveResponse seña completada y la venta emitida por el saldo.
type CompleteReserveResponse struct {
	Reserve ReserveResponse `json:"reserve"`
	Sale    SaleResponse    `json:"sale"`
}
