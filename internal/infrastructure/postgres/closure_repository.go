package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
)

var (
	_ repository.ClosureRepository    = (*ClosureRepo)(nil)
	_ repository.WithdrawalRepository = (*WithdrawalRepo)(nil)
)

const closureColumns = `id, timestamp, period_start, cantidad_productos_vendidos, cantidad_celulares_vendidos,
	dinero_total, dinero_total_efectivo, dinero_total_banco, dinero_total_tarjeta, ganancias_limpias,
	dinero_total_usd, ganancias_limpias_usd, dinero_total_efectivo_usd, dinero_total_banco_usd,
	efectivo_neto, efectivo_neto_usd, por_categoria, sale_count, withdrawals, created_by`

type currencyAmountsRow struct {
	ARS decimal.Decimal `json:"ars"`
	USD decimal.Decimal `json:"usd"`
}

type withdrawalRow struct {
	ID        string          `json:"id"`
	Box       string          `json:"box"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Note      string          `json:"note,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Store     string          `json:"store,omitempty"`
	CreatedBy string          `json:"created_by,omitempty"`
}

// ClosureRepo cierres de caja. Los desgloses por categoría y los retiros del período se guardan como JSONB.
type ClosureRepo struct {
	q Querier
}

// NewClosureRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClosureRepository(q Querier) *ClosureRepo {
	return &ClosureRepo{q: q}
}

func (r *ClosureRepo) Create(ctx context.Context, c *entity.Closure) error {
	cats := make(map[string]currencyAmountsRow, len(c.PorCategoria))
	for k, v := range c.PorCategoria {
		cats[k] = currencyAmountsRow(v)
	}
	catsJSON, err := json.Marshal(cats)
	if err != nil {
		return fmt.Errorf("marshal por_categoria: %w", err)
	}
	ws := make([]withdrawalRow, 0, len(c.Withdrawals))
	for _, w := range c.Withdrawals {
		ws = append(ws, withdrawalRow(w))
	}
	wsJSON, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal withdrawals: %w", err)
	}

	query := `INSERT INTO closures (` + closureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err = r.q.Exec(ctx, query,
		c.ID, c.Timestamp, nullTime(c.PeriodStart), c.CantidadProductosVendidos, c.CantidadCelularesVendidos,
		c.DineroTotal, c.DineroTotalEfectivo, c.DineroTotalBanco, c.DineroTotalTarjeta, c.GananciasLimpias,
		c.DineroTotalUSD, c.GananciasLimpiasUSD, c.DineroTotalEfectivoUSD, c.DineroTotalBancoUSD,
		c.EfectivoNeto, c.EfectivoNetoUSD, catsJSON, c.SaleCount, wsJSON, c.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert closure: %w", err)
	}
	return nil
}

// closePeriodLockKey clave del advisory lock de cierre de caja.
const closePeriodLockKey int64 = 0x696d6b74636c6f73

// LockPeriod toma pg_advisory_xact_lock: se libera con el commit o rollback. Fuera de una transacción
// no serializa nada.
func (r *ClosureRepo) LockPeriod(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, closePeriodLockKey); err != nil {
		return fmt.Errorf("lock closure period: %w", err)
	}
	return nil
}

func (r *ClosureRepo) Last(ctx context.Context) (*entity.Closure, error) {
	c, err := scanClosure(r.q.QueryRow(ctx,
		`SELECT `+closureColumns+` FROM closures ORDER BY timestamp DESC LIMIT 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last closure: %w", err)
	}
	return c, nil
}

func (r *ClosureRepo) List(ctx context.Context, limit, offset int) ([]*entity.Closure, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+closureColumns+` FROM closures ORDER BY timestamp DESC LIMIT $1 OFFSET $2`,
		limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list closures: %w", err)
	}
	defer rows.Close()

	var list []*entity.Closure
	for rows.Next() {
		c, err := scanClosure(rows)
		if err != nil {
			return nil, fmt.Errorf("scan closure: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanClosure(row pgx.Row) (*entity.Closure, error) {
	var (
		c           entity.Closure
		periodStart *time.Time
		catsJSON    []byte
		wsJSON      []byte
	)
	err := row.Scan(
		&c.ID, &c.Timestamp, &periodStart, &c.CantidadProductosVendidos, &c.CantidadCelularesVendidos,
		&c.DineroTotal, &c.DineroTotalEfectivo, &c.DineroTotalBanco, &c.DineroTotalTarjeta, &c.GananciasLimpias,
		&c.DineroTotalUSD, &c.GananciasLimpiasUSD, &c.DineroTotalEfectivoUSD, &c.DineroTotalBancoUSD,
		&c.EfectivoNeto, &c.EfectivoNetoUSD, &catsJSON, &c.SaleCount, &wsJSON, &c.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	c.PeriodStart = derefTime(periodStart)

	var cats map[string]currencyAmountsRow
	if err := json.Unmarshal(catsJSON, &cats); err != nil {
		return nil, fmt.Errorf("unmarshal por_categoria: %w", err)
	}
	c.PorCategoria = make(map[string]entity.CurrencyAmounts, len(cats))
	for k, v := range cats {
		c.PorCategoria[k] = entity.CurrencyAmounts(v)
	}
	var ws []withdrawalRow
	if err := json.Unmarshal(wsJSON, &ws); err != nil {
		return nil, fmt.Errorf("unmarshal withdrawals: %w", err)
	}
	for _, w := range ws {
		c.Withdrawals = append(c.Withdrawals, entity.CashWithdrawal(w))
	}
	return &c, nil
}

// WithdrawalRepo retiros de caja. Solo alta.
type WithdrawalRepo struct {
	q Querier
}

// NewWithdrawalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWithdrawalRepository(q Querier) *WithdrawalRepo {
	return &WithdrawalRepo{q: q}
}

func (r *WithdrawalRepo) Create(ctx context.Context, w *entity.CashWithdrawal) error {
	query := `
		INSERT INTO cash_withdrawals (id, box, method, amount, currency, note, timestamp, store, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.Box, w.Method, w.Amount, w.Currency, w.Note, w.Timestamp, w.Store, w.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

func (r *WithdrawalRepo) ListSince(ctx context.Context, since time.Time) ([]*entity.CashWithdrawal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, box, method, amount, currency, note, timestamp, store, created_by
		FROM cash_withdrawals WHERE timestamp > $1 ORDER BY timestamp`, since)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	var list []*entity.CashWithdrawal
	for rows.Next() {
		var w entity.CashWithdrawal
		if err := rows.Scan(&w.ID, &w.Box, &w.Method, &w.Amount, &w.Currency, &w.Note,
			&w.Timestamp, &w.Store, &w.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
