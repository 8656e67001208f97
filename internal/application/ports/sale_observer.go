package ports

import "github.com/jhoicas/iMarket-api/internal/domain/entity"

// SaleObserver recibe cada venta después del commit (métricas). Nunca debe bloquear.
type SaleObserver interface {
	SaleCommitted(sale *entity.Sale)
}
