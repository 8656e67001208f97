// Package money convierte montos entre USD y ARS y los formatea para pantalla (es-AR).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Monedas soportadas.
const (
	ARS = "ARS"
	USD = "USD"
)

// Tolerance diferencia máxima aceptada al conciliar montos (0,01).
var Tolerance = decimal.New(1, -2)

var printer = message.NewPrinter(language.MustParse("es-AR"))

// RateKnown indica si la cotización es utilizable. Una cotización 0 significa "desconocida", no "gratis".
func RateKnown(rate decimal.Decimal) bool {
	return rate.GreaterThan(decimal.Zero)
}

// ToARS convierte USD a ARS. Con cotización desconocida devuelve 0.
func ToARS(amountUSD, rate decimal.Decimal) decimal.Decimal {
	if !RateKnown(rate) {
		return decimal.Zero
	}
	return amountUSD.Mul(rate)
}

// ToUSD convierte ARS a USD. Con cotización desconocida devuelve 0.
func ToUSD(amountARS, rate decimal.Decimal) decimal.Decimal {
	if !RateKnown(rate) {
		return decimal.Zero
	}
	return amountARS.Div(rate)
}

// IsCurrency valida el código de moneda.
func IsCurrency(c string) bool {
	return c == ARS || c == USD
}

// Reconciles indica si |a - b| <= 0,01.
func Reconciles(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// FormatCurrency formatea un monto en pesos: "$ 1.234,50".
func FormatCurrency(amountARS decimal.Decimal) string {
	return "$ " + formatNumber(amountARS)
}

// FormatUSDCurrency formatea un monto en dólares: "US$ 1.234,50".
func FormatUSDCurrency(amountUSD decimal.Decimal) string {
	return "US$ " + formatNumber(amountUSD)
}

func formatNumber(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("%.2f", f)
}
