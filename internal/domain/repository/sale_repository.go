package repository

import (
	"context"
	"time"

	"github.com/jhoicas/iMarket-api/internal/domain/entity"
)

// SaleFilter filtros de listado. From/To nil = sin límite.
type SaleFilter struct {
	From   *time.Time
	To     *time.Time
	Store  string
	Limit  int
	Offset int
}

// SaleRepository ventas. Solo alta y lectura: una venta es inmutable.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	Count(ctx context.Context, filter SaleFilter) (int, error)
	// ListOpenPeriod devuelve las ventas con fecha posterior a since y las ventas sin fecha.
	ListOpenPeriod(ctx context.Context, since time.Time) ([]*entity.Sale, error)
}
