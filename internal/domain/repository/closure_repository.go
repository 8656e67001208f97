package repository

import (
	"context"
	"time"

	"github.com/jhoicas/iMarket-api/internal/domain/entity"
)

// ClosureRepository cierres de caja (inmutables).
type ClosureRepository interface {
	Create(ctx context.Context, closure *entity.Closure) error
	// LockPeriod serializa los cierres concurrentes hasta el fin de la transacción. Se llama antes de Last.
	LockPeriod(ctx context.Context) error
	// Last devuelve el cierre más reciente o (nil, nil) si nunca se cerró la caja.
	Last(ctx context.Context) (*entity.Closure, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Closure, error)
}

// WithdrawalRepository retiros de caja (solo alta).
type WithdrawalRepository interface {
	Create(ctx context.Context, w *entity.CashWithdrawal) error
	ListSince(ctx context.Context, since time.Time) ([]*entity.CashWithdrawal, error)
}
