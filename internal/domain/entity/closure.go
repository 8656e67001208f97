package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Grupos de categoría para el cierre.
const (
	ClosureGroupPhonesNew  = "celulares_nuevos"
	ClosureGroupPhonesUsed = "celulares_usados"
	ClosureGroupOther      = "otros"
)

// CurrencyAmounts par de montos ARS/USD.
type CurrencyAmounts struct {
	ARS decimal.Decimal
	USD decimal.Decimal
}

// Closure foto inmutable del cierre de caja. Timestamp define el inicio del siguiente período.
type Closure struct {
	ID                        string
	Timestamp                 time.Time
	PeriodStart               time.Time
	CantidadProductosVendidos int
	CantidadCelularesVendidos int
	DineroTotal               decimal.Decimal
	DineroTotalEfectivo       decimal.Decimal
	DineroTotalBanco          decimal.Decimal
	DineroTotalTarjeta        decimal.Decimal
	GananciasLimpias          decimal.Decimal
	DineroTotalUSD            decimal.Decimal
	GananciasLimpiasUSD       decimal.Decimal
	DineroTotalEfectivoUSD    decimal.Decimal
	DineroTotalBancoUSD       decimal.Decimal
	EfectivoNeto              decimal.Decimal
	EfectivoNetoUSD           decimal.Decimal
	PorCategoria              map[string]CurrencyAmounts
	SaleCount                 int
	Withdrawals               []CashWithdrawal
	CreatedBy                 string
}
