package dto

import "github.com/shopspring/decimal"

// DashboardTodayDTO respuesta de GET /api/dashboard/today.
// Solo cuenta ventas desde las 00:00 de hoy; las ventas sin fecha se excluyen.
type DashboardTodayDTO struct {
	SaleCount      int             `json:"sale_count"`
	UnitsSold      int             `json:"units_sold"`
	PhonesSold     int             `json:"phones_sold"`
	RevenueARS     decimal.Decimal `json:"revenue_ars"`
	RevenueUSD     decimal.Decimal `json:"revenue_usd"`
	ProfitARS      decimal.Decimal `json:"profit_ars"`
	ProfitUSD      decimal.Decimal `json:"profit_usd"`
	TotalAmountARS decimal.Decimal `json:"total_amount_ars"` // suma de TotalAmount de las ventas
	USDRate        decimal.Decimal `json:"usd_rate"`
	RateKnown      bool            `json:"rate_known"`
	Inventory      ValuationDTO    `json:"inventory"`
	LowStockCount  int             `json:"low_stock_count"`
	DateLabel      string          `json:"date_label"` // ej: "16 de Octubre 2026"
}
