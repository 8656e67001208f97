package repository

import (
	"context"

	"github.com/jhoicas/iMarket-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	Store    string
	Category string
	InStock  bool
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Count total que matchea el filtro, ignorando Limit/Offset.
	Count(ctx context.Context, filter ProductFilter) (int, error)
}
