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

var _ repository.JblRepository = (*JblRepo)(nil)

const jblColumns = `id, name, model, price, currency, cost, quantity_loaded, available_quantity, sold_quantity,
	stock_mode, linked_product_id, store, created_at, updated_at`

// JblRepo parlantes JBL.
type JblRepo struct {
	q Querier
}

// NewJblRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJblRepository(q Querier) *JblRepo {
	return &JblRepo{q: q}
}

func (r *JblRepo) Create(ctx context.Context, p *entity.JblProduct) error {
	query := `INSERT INTO jbl_products (` + jblColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Model, p.Price, p.Currency, p.Cost, p.QuantityLoaded, p.AvailableQuantity,
		p.SoldQuantity, p.StockMode, nullString(p.LinkedProductID), p.Store, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert jbl product: %w", err)
	}
	return nil
}

func (r *JblRepo) GetByID(ctx context.Context, id string) (*entity.JblProduct, error) {
	return r.get(ctx, `SELECT `+jblColumns+` FROM jbl_products WHERE id = $1`, id)
}

func (r *JblRepo) GetForUpdate(ctx context.Context, id string) (*entity.JblProduct, error) {
	return r.get(ctx, `SELECT `+jblColumns+` FROM jbl_products WHERE id = $1 FOR UPDATE`, id)
}

func (r *JblRepo) GetByLinkedProduct(ctx context.Context, productID string) (*entity.JblProduct, error) {
	return r.get(ctx, `SELECT `+jblColumns+` FROM jbl_products WHERE linked_product_id = $1 FOR UPDATE`, productID)
}

func (r *JblRepo) get(ctx context.Context, query, id string) (*entity.JblProduct, error) {
	p, err := scanJbl(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get jbl product: %w", err)
	}
	return p, nil
}

func (r *JblRepo) Update(ctx context.Context, p *entity.JblProduct) error {
	query := `
		UPDATE jbl_products SET name = $2, model = $3, price = $4, currency = $5, cost = $6,
			quantity_loaded = $7, available_quantity = $8, sold_quantity = $9, linked_product_id = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Model, p.Price, p.Currency, p.Cost,
		p.QuantityLoaded, p.AvailableQuantity, p.SoldQuantity, nullString(p.LinkedProductID), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update jbl product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List en orden de alta.
func (r *JblRepo) List(ctx context.Context) ([]*entity.JblProduct, error) {
	rows, err := r.q.Query(ctx, `SELECT `+jblColumns+` FROM jbl_products ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list jbl products: %w", err)
	}
	defer rows.Close()

	var list []*entity.JblProduct
	for rows.Next() {
		p, err := scanJbl(rows)
		if err != nil {
			return nil, fmt.Errorf("scan jbl product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanJbl(row pgx.Row) (*entity.JblProduct, error) {
	var (
		p      entity.JblProduct
		linked *string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Model, &p.Price, &p.Currency, &p.Cost, &p.QuantityLoaded, &p.AvailableQuantity,
		&p.SoldQuantity, &p.StockMode, &linked, &p.Store, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.LinkedProductID = derefString(linked)
	return &p, nil
}
