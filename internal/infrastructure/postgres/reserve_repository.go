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

var _ repository.ReserveRepository = (*ReserveRepo)(nil)

const reserveColumns = `id, date, expiration_date, customer_id, customer_name, customer_dni, product_id, product_name,
	product_price, product_stock_snapshot, product_cost, product_category, provider, store, quantity,
	down_payment, remaining_amount, status, completed_at, cancelled_at, sale_id`

// ReserveRepo señas sobre PostgreSQL.
type ReserveRepo struct {
	q Querier
}

// NewReserveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReserveRepository(q Querier) *ReserveRepo {
	return &ReserveRepo{q: q}
}

func (r *ReserveRepo) Create(ctx context.Context, res *entity.Reserve) error {
	query := `INSERT INTO reserves (` + reserveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.Date, res.ExpirationDate, nullString(res.CustomerID), res.CustomerName, res.CustomerDNI,
		res.ProductID, res.ProductName, res.ProductPrice, res.ProductStockSnapshot, res.ProductCost,
		res.ProductCategory, res.Provider, res.Store, res.Quantity, res.DownPayment, res.RemainingAmount,
		res.Status, res.CompletedAt, res.CancelledAt, nullString(res.SaleID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert reserve: %w", err)
	}
	return nil
}

func (r *ReserveRepo) GetByID(ctx context.Context, id string) (*entity.Reserve, error) {
	return r.get(ctx, `SELECT `+reserveColumns+` FROM reserves WHERE id = $1`, id)
}

// GetForUpdate bloquea la seña: dos completados concurrentes no pueden pasar ambos de reserved.
func (r *ReserveRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reserve, error) {
	return r.get(ctx, `SELECT `+reserveColumns+` FROM reserves WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReserveRepo) get(ctx context.Context, query, id string) (*entity.Reserve, error) {
	res, err := scanReserve(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reserve: %w", err)
	}
	return res, nil
}

// Update solo cambian estado, fechas de cierre y venta asociada.
func (r *ReserveRepo) Update(ctx context.Context, res *entity.Reserve) error {
	query := `
		UPDATE reserves SET status = $2, completed_at = $3, cancelled_at = $4, sale_id = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, res.ID, res.Status, res.CompletedAt, res.CancelledAt, nullString(res.SaleID))
	if err != nil {
		return fmt.Errorf("update reserve: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReserveRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Reserve, error) {
	query := `
		SELECT ` + reserveColumns + ` FROM reserves
		WHERE ($1 = '' OR status = $1)
		ORDER BY date DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list reserves: %w", err)
	}
	defer rows.Close()

	var list []*entity.Reserve
	for rows.Next() {
		res, err := scanReserve(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reserve: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

func (r *ReserveRepo) CountActiveByProduct(ctx context.Context, productID, excludeID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM reserves
		WHERE product_id = $1 AND status = $2 AND id <> $3`,
		productID, entity.ReserveStatusReserved, excludeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active reserves: %w", err)
	}
	return n, nil
}

func scanReserve(row pgx.Row) (*entity.Reserve, error) {
	var (
		res        entity.Reserve
		customerID *string
		saleID     *string
	)
	err := row.Scan(
		&res.ID, &res.Date, &res.ExpirationDate, &customerID, &res.CustomerName, &res.CustomerDNI,
		&res.ProductID, &res.ProductName, &res.ProductPrice, &res.ProductStockSnapshot, &res.ProductCost,
		&res.ProductCategory, &res.Provider, &res.Store, &res.Quantity, &res.DownPayment, &res.RemainingAmount,
		&res.Status, &res.CompletedAt, &res.CancelledAt, &saleID,
	)
	if err != nil {
		return nil, err
	}
	res.CustomerID = derefString(customerID)
	res.SaleID = derefString(saleID)
	return &res, nil
}
