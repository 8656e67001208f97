package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, date, customer_id, items, payment_method, cash_amount, transfer_amount, card_amount,
	cash_usd_amount, total_amount, usd_rate, store, source, reserve_id, created_by`

// saleItemRow forma JSONB de una línea de venta.
type saleItemRow struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Cost        decimal.Decimal `json:"cost"`
	Provider    string          `json:"provider,omitempty"`
	Consignment bool            `json:"consignment,omitempty"`
}

// SaleRepo ventas sobre PostgreSQL. Las líneas se guardan como JSONB junto a la cabecera.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	items := make([]saleItemRow, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, saleItemRow(it))
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal sale items: %w", err)
	}
	query := `INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.q.Exec(ctx, query,
		s.ID, nullTime(s.Date), nullString(s.CustomerID), itemsJSON, s.PaymentMethod,
		s.CashAmount, s.TransferAmount, s.CardAmount, s.CashUSDAmount,
		s.TotalAmount, s.USDRate, s.Store, s.Source, nullString(s.ReserveID), s.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List más recientes primero. Las ventas sin fecha quedan al final.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + ` FROM sales
		WHERE ($1 = '' OR store = $1)
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY seq DESC
		LIMIT $4 OFFSET $5`
	return r.list(ctx, query, f.Store, f.From, f.To, limitArg(f.Limit), f.Offset)
}

func (r *SaleRepo) Count(ctx context.Context, f repository.SaleFilter) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT count(*) FROM sales
		WHERE ($1 = '' OR store = $1)
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)`, f.Store, f.From, f.To).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

// ListOpenPeriod ventas posteriores a since más las históricas sin fecha, en orden de alta.
func (r *SaleRepo) ListOpenPeriod(ctx context.Context, since time.Time) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE date IS NULL OR date > $1 ORDER BY seq`
	return r.list(ctx, query, since)
}

func (r *SaleRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s          entity.Sale
		date       *time.Time
		customerID *string
		reserveID  *string
		itemsJSON  []byte
	)
	err := row.Scan(
		&s.ID, &date, &customerID, &itemsJSON, &s.PaymentMethod,
		&s.CashAmount, &s.TransferAmount, &s.CardAmount, &s.CashUSDAmount,
		&s.TotalAmount, &s.USDRate, &s.Store, &s.Source, &reserveID, &s.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	var items []saleItemRow
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return nil, fmt.Errorf("unmarshal sale items: %w", err)
	}
	s.Items = make([]entity.SaleItem, 0, len(items))
	for _, it := range items {
		s.Items = append(s.Items, entity.SaleItem(it))
	}
	s.Date = derefTime(date)
	s.CustomerID = derefString(customerID)
	s.ReserveID = derefString(reserveID)
	return &s, nil
}
