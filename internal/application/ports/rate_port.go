package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateQuoter puerto de salida hacia una API externa de cotizaciones.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type RateQuoter interface {
	// SellRate devuelve la cotización de venta USD→ARS.
	SellRate(ctx context.Context) (decimal.Decimal, error)
}

// RateCache caché de la cotización vigente (Redis). Un miss devuelve ok=false sin error.
type RateCache interface {
	Get(ctx context.Context) (rate decimal.Decimal, ok bool, err error)
	Set(ctx context.Context, rate decimal.Decimal, ttl time.Duration) error
}

// RateSource lo que consumen los casos de uso: la cotización vigente, inyectada.
// Un valor 0 significa "desconocida".
type RateSource interface {
	Current(ctx context.Context) (decimal.Decimal, error)
}
