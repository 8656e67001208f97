package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sucursales.
const (
	StoreLocal1 = "local1"
	StoreLocal2 = "local2"
)

// IsStore valida el código de sucursal.
func IsStore(s string) bool {
	return s == StoreLocal1 || s == StoreLocal2
}

// Product representa un ítem del catálogo. Los celulares se cargan de a una unidad por registro
// (granularidad tipo IMEI); los accesorios representan un conteo de unidades idénticas.
// Stock nunca es negativo.
type Product struct {
	ID        string
	Name      string
	Brand     string
	Model     string
	Category  string
	Price     decimal.Decimal // precio de venta expresado en Currency
	Currency  string          // ARS | USD
	Cost      decimal.Decimal // costo unitario en Currency
	Provider  string
	Stock     int
	Store     string // local1 | local2
	Reserved  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
