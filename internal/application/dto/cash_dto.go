package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyAmountsDTO par ARS/USD.
type CurrencyAmountsDTO struct {
	ARS decimal.Decimal `json:"ars"`
	USD decimal.Decimal `json:"usd"`
}

// ClosureResponse cierre de caja (o vista previa del período abierto si ID está vacío).
type ClosureResponse struct {
	ID                        string                        `json:"id,omitempty"`
	Timestamp                 time.Time                     `json:"timestamp"`
	PeriodStart               time.Time                     `json:"period_start"`
	CantidadProductosVendidos int                           `json:"cantidad_productos_vendidos"`
	CantidadCelularesVendidos int                           `json:"cantidad_celulares_vendidos"`
	DineroTotal               decimal.Decimal               `json:"dinero_total"`
	DineroTotalEfectivo       decimal.Decimal               `json:"dinero_total_efectivo"`
	DineroTotalBanco          decimal.Decimal               `json:"dinero_total_banco"`
	DineroTotalTarjeta        decimal.Decimal               `json:"dinero_total_tarjeta"`
	GananciasLimpias          decimal.Decimal               `json:"ganancias_limpias"`
	DineroTotalUSD            decimal.Decimal               `json:"dinero_total_usd"`
	GananciasLimpiasUSD       decimal.Decimal               `json:"ganancias_limpias_usd"`
	DineroTotalEfectivoUSD    decimal.Decimal               `json:"dinero_total_efectivo_usd"`
	DineroTotalBancoUSD       decimal.Decimal               `json:"dinero_total_banco_usd"`
	EfectivoNeto              decimal.Decimal               `json:"efectivo_neto"`
	EfectivoNetoUSD           decimal.Decimal               `json:"efectivo_neto_usd"`
	PorCategoria              map[string]CurrencyAmountsDTO `json:"por_categoria"`
	SaleCount                 int                           `json:"sale_count"`
	Withdrawals               []WithdrawalResponse          `json:"withdrawals"`
	DineroTotalFormatted      string                        `json:"dinero_total_formatted"`
	DineroTotalUSDFormatted   string                        `json:"dinero_total_usd_formatted"`
}

// CreateWithdrawalRequest body para POST /api/cash/withdrawals.
type CreateWithdrawalRequest struct {
	Box      string          `json:"box" validate:"required,oneof=accessories cellphones"`
	Method   string          `json:"method" validate:"required,oneof=cash transfer"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty" validate:"omitempty,oneof=ARS USD"`
	Note     string          `json:"note" validate:"max=300"`
	Store    string          `json:"store,omitempty" validate:"omitempty,oneof=local1 local2"`
}

// WithdrawalResponse retiro de caja.
type WithdrawalResponse struct {
	ID        string          `json:"id"`
	Box       string          `json:"box"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Note      string          `json:"note"`
	Timestamp time.Time       `json:"timestamp"`
	Store     string          `json:"store"`
}
