package rates_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/iMarket-api/internal/application/rates"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/memory"
)

type stubQuoter struct {
	rate decimal.Decimal
	err  error
}

func (q stubQuoter) SellRate(context.Context) (decimal.Decimal, error) { return q.rate, q.err }

type mapCache struct {
	rate decimal.Decimal
	ok   bool
	sets int
}

func (c *mapCache) Get(context.Context) (decimal.Decimal, bool, error) { return c.rate, c.ok, nil }

func (c *mapCache) Set(_ context.Context, rate decimal.Decimal, _ time.Duration) error {
	c.rate, c.ok = rate, true
	c.sets++
	return nil
}

func TestCurrent_SinCotizacionEsCero(t *testing.T) {
	store := memory.NewStore()
	svc := rates.NewService(store.Repos().Rates, nil, nil, 0)
	rate, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.True(t, rate.IsZero())

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, got.Known)
}

func TestSet_PersisteYRefrescaCache(t *testing.T) {
	store := memory.NewStore()
	cache := &mapCache{}
	svc := rates.NewService(store.Repos().Rates, cache, nil, time.Minute)

	_, err := svc.Set(context.Background(), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Set(context.Background(), decimal.NewFromInt(1200))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	rate, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1200).Equal(rate))
}

func TestRefresh_FallaConservaValorAnterior(t *testing.T) {
	store := memory.NewStore()
	svc := rates.NewService(store.Repos().Rates, nil, stubQuoter{err: errors.New("timeout")}, 0)
	require.NoError(t, store.Repos().Rates.SetUSDRate(context.Background(), decimal.NewFromInt(1100), time.Now()))

	out, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Stale)
	assert.True(t, decimal.NewFromInt(1100).Equal(out.Rate))
}

func TestRefresh_Exito(t *testing.T) {
	store := memory.NewStore()
	svc := rates.NewService(store.Repos().Rates, nil, stubQuoter{rate: decimal.NewFromInt(1250)}, 0)

	out, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Stale)
	rate, _ := svc.Current(context.Background())
	assert.True(t, decimal.NewFromInt(1250).Equal(rate))
}
