package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/domain/repository"
)

var _ repository.RateRepository = (*RateRepo)(nil)

const usdRateKey = "usd_rate"

// RateRepo cotización persistida en app_config.
type RateRepo struct {
	q Querier
}

// NewRateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRateRepository(q Querier) *RateRepo {
	return &RateRepo{q: q}
}

func (r *RateRepo) GetUSDRate(ctx context.Context) (decimal.Decimal, time.Time, bool, error) {
	var (
		rate      decimal.Decimal
		updatedAt time.Time
	)
	err := r.q.QueryRow(ctx,
		`SELECT value, updated_at FROM app_config WHERE key = $1`, usdRateKey,
	).Scan(&rate, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, time.Time{}, false, nil
		}
		return decimal.Zero, time.Time{}, false, fmt.Errorf("get usd rate: %w", err)
	}
	return rate, updatedAt, true, nil
}

func (r *RateRepo) SetUSDRate(ctx context.Context, rate decimal.Decimal, updatedAt time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO app_config (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		usdRateKey, rate, updatedAt)
	if err != nil {
		return fmt.Errorf("set usd rate: %w", err)
	}
	return nil
}
