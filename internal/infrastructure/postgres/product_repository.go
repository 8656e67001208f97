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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, brand, model, category, price, currency, cost, provider, stock, store, reserved, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Brand, p.Model, p.Category, p.Price, p.Currency, p.Cost,
		p.Provider, p.Stock, p.Store, p.Reserved, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) get(ctx context.Context, query, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update reescribe todos los campos mutables del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, brand = $3, model = $4, category = $5, price = $6, currency = $7,
			cost = $8, provider = $9, stock = $10, store = $11, reserved = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Brand, p.Model, p.Category, p.Price, p.Currency,
		p.Cost, p.Provider, p.Stock, p.Store, p.Reserved, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el producto. Borrar un producto inexistente no es error.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// List lista productos filtrados, más recientes primero.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE ($1 = '' OR store = $1)
		  AND ($2 = '' OR category = $2)
		  AND (NOT $3 OR stock > 0)
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.Store, f.Category, f.InStock, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) Count(ctx context.Context, f repository.ProductFilter) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT count(*) FROM products
		WHERE ($1 = '' OR store = $1)
		  AND ($2 = '' OR category = $2)
		  AND (NOT $3 OR stock > 0)`, f.Store, f.Category, f.InStock).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.Model, &p.Category, &p.Price, &p.Currency, &p.Cost,
		&p.Provider, &p.Stock, &p.Store, &p.Reserved, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
