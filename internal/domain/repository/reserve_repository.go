package repository

import (
	"context"

	"github.com/jhoicas/iMarket-api/internal/domain/entity"
)

// ReserveRepository señas.
type ReserveRepository interface {
	Create(ctx context.Context, reserve *entity.Reserve) error
	GetByID(ctx context.Context, id string) (*entity.Reserve, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Reserve, error)
	Update(ctx context.Context, reserve *entity.Reserve) error
	// List filtra por estado; vacío = todas.
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Reserve, error)
	// CountActiveByProduct cuenta señas en estado reserved del producto, excluyendo excludeID.
	CountActiveByProduct(ctx context.Context, productID, excludeID string) (int, error)
}
