package ports

import (
	"context"

	"github.com/jhoicas/iMarket-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: o se ven todos los efectos de una acción del usuario, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}
