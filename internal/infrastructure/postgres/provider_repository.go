package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
)

var _ repository.ProviderRepository = (*ProviderRepo)(nil)

// ProviderRepo proveedores y su cuenta corriente.
type ProviderRepo struct {
	q Querier
}

// NewProviderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProviderRepository(q Querier) *ProviderRepo {
	return &ProviderRepo{q: q}
}

func (r *ProviderRepo) Create(ctx context.Context, p *entity.Provider) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO providers (id, name, phone, created_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.Phone, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert provider: %w", err)
	}
	return nil
}

func (r *ProviderRepo) GetByID(ctx context.Context, id string) (*entity.Provider, error) {
	var p entity.Provider
	err := r.q.QueryRow(ctx,
		`SELECT id, name, phone, created_at FROM providers WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Phone, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return &p, nil
}

func (r *ProviderRepo) List(ctx context.Context) ([]*entity.Provider, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, phone, created_at FROM providers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Provider
	for rows.Next() {
		var p entity.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *ProviderRepo) CreateTransaction(ctx context.Context, tx *entity.ProviderTransaction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO provider_transactions (id, provider_id, type, amount, detail, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tx.ID, tx.ProviderID, tx.Type, tx.Amount, tx.Detail, tx.CreatedAt, tx.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert provider transaction: %w", err)
	}
	return nil
}

// ListTransactions orden cronológico; seq desempata transacciones con el mismo instante.
func (r *ProviderRepo) ListTransactions(ctx context.Context, providerID string) ([]*entity.ProviderTransaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, provider_id, type, amount, detail, created_at, created_by
		FROM provider_transactions WHERE provider_id = $1
		ORDER BY created_at, seq`, providerID)
	if err != nil {
		return nil, fmt.Errorf("list provider transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProviderTransaction
	for rows.Next() {
		var t entity.ProviderTransaction
		if err := rows.Scan(&t.ID, &t.ProviderID, &t.Type, &t.Amount, &t.Detail, &t.CreatedAt, &t.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan provider transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
