package repository

import (
	"context"

	"github.com/jhoicas/iMarket-api/internal/domain/entity"
)

// ProviderRepository proveedores y su cuenta corriente (transacciones solo se agregan).
type ProviderRepository interface {
	Create(ctx context.Context, provider *entity.Provider) error
	GetByID(ctx context.Context, id string) (*entity.Provider, error)
	List(ctx context.Context) ([]*entity.Provider, error)
	CreateTransaction(ctx context.Context, tx *entity.ProviderTransaction) error
	// ListTransactions en orden cronológico.
	ListTransactions(ctx context.Context, providerID string) ([]*entity.ProviderTransaction, error)
}
