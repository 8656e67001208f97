package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo auditoría de stock. Solo inserta y lista.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, stock_after, reference, store, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.StockAfter, m.Reference, m.Store, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, stock_after, reference, store, created_at, created_by
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.StockAfter,
			&m.Reference, &m.Store, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
