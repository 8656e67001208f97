package dto

import "github.com/shopspring/decimal"

// LowStockDTO producto no celular con stock en o por debajo del umbral (incluye accesorios en 0).
type LowStockDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Store     string `json:"store"`
	Stock     int    `json:"stock"`
	Provider  string `json:"provider"`
}

// ValuationDTO valor del inventario propio (costo × stock) por moneda. La mercadería en
// consignación no forma parte del inventario.
type ValuationDTO struct {
	CostARS  decimal.Decimal `json:"cost_ars"`
	CostUSD  decimal.Decimal `json:"cost_usd"`
	PriceARS decimal.Decimal `json:"price_ars"`
	PriceUSD decimal.Decimal `json:"price_usd"`
	Units    int             `json:"units"`
}
