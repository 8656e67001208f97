package stock

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado para reposiciones.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual int, costoActual decimal.Decimal, cantEntrada int, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual + cantEntrada
	if sum <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(int64(stockActual)).Mul(costoActual).
		Add(decimal.NewFromInt(int64(cantEntrada)).Mul(costoEntrada))
	return num.Div(decimal.NewFromInt(int64(sum)))
}
