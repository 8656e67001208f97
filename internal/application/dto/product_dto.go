package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para cargar un producto al catálogo.
type CreateProductRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Brand    string          `json:"brand" validate:"max=100"`
	Model    string          `json:"model" validate:"max=100"`
	Category string          `json:"category" validate:"required,max=100"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency" validate:"required,oneof=ARS USD"`
	Cost     decimal.Decimal `json:"cost"`
	Provider string          `json:"provider"`
	Stock    int             `json:"stock" validate:"min=0"`
	Store    string          `json:"store" validate:"required,oneof=local1 local2"`
}

// RestockRequest reposición. UnitCost opcional recalcula el costo promedio ponderado.
type RestockRequest struct {
	Quantity int              `json:"quantity" validate:"min=1"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// AdjustStockRequest ajuste manual (delta con signo). El resultado se limita a 0.
type AdjustStockRequest struct {
	Delta int    `json:"delta"`
	Note  string `json:"note" validate:"max=300"`
}

// TransferRequest cambio de sucursal de una cantidad de unidades.
type TransferRequest struct {
	Quantity int    `json:"quantity" validate:"min=1"`
	ToStore  string `json:"to_store" validate:"required,oneof=local1 local2"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Model     string          `json:"model"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Cost      decimal.Decimal `json:"cost"`
	Provider  string          `json:"provider"`
	Stock     int             `json:"stock"`
	Store     string          `json:"store"`
	Reserved  bool            `json:"reserved"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockChangeResponse resultado de una operación de stock. Deleted indica que el celular agotado
// se eliminó del catálogo.
type StockChangeResponse struct {
	ProductID string           `json:"product_id"`
	Stock     int              `json:"stock"`
	Deleted   bool             `json:"deleted"`
	Product   *ProductResponse `json:"product,omitempty"`
}

// TransferResponse resultado de un cambio de sucursal.
type TransferResponse struct {
	Source      StockChangeResponse `json:"source"`
	Destination ProductResponse     `json:"destination"`
}

// StockMovementResponse registro de auditoría.
type StockMovementResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Type       string    `json:"type"`
	Quantity   int       `json:"quantity"`
	StockAfter int       `json:"stock_after"`
	Reference  string    `json:"reference"`
	Store      string    `json:"store"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  string    `json:"created_by"`
}
