package repository

import (
	"context"

	"github.com/jhoicas/iMarket-api/internal/domain/entity"
)

// JblRepository parlantes JBL (inventario o consignación).
type JblRepository interface {
	Create(ctx context.Context, p *entity.JblProduct) error
	GetByID(ctx context.Context, id string) (*entity.JblProduct, error)
	GetForUpdate(ctx context.Context, id string) (*entity.JblProduct, error)
	// GetByLinkedProduct parlante en modo inventario cuyo espejo es productID, bloqueado; nil si no hay.
	GetByLinkedProduct(ctx context.Context, productID string) (*entity.JblProduct, error)
	Update(ctx context.Context, p *entity.JblProduct) error
	List(ctx context.Context) ([]*entity.JblProduct, error)
}
