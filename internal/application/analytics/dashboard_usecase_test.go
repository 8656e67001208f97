package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/memory"
)

type fixedRate struct{ rate decimal.Decimal }

func (f fixedRate) Current(context.Context) (decimal.Decimal, error) { return f.rate, nil }

func TestToday_SoloVentasDesdeMedianoche(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.Local)
	repos := store.Repos()

	item := func(price int64, currency, category string) entity.SaleItem {
		return entity.SaleItem{Quantity: 1, Price: decimal.NewFromInt(price), Cost: decimal.NewFromInt(price / 2), Currency: currency, Category: category}
	}
	require.NoError(t, repos.Sales.Create(ctx, &entity.Sale{ID: "ayer", Date: now.AddDate(0, 0, -1), Items: []entity.SaleItem{item(1000, "ARS", "Fundas")}}))
	require.NoError(t, repos.Sales.Create(ctx, &entity.Sale{ID: "sin-fecha", Items: []entity.SaleItem{item(1000, "ARS", "Fundas")}}))
	require.NoError(t, repos.Sales.Create(ctx, &entity.Sale{ID: "hoy1", Date: now.Add(-time.Hour), TotalAmount: decimal.NewFromInt(2000), Items: []entity.SaleItem{item(2000, "ARS", "Fundas")}}))
	require.NoError(t, repos.Sales.Create(ctx, &entity.Sale{ID: "hoy2", Date: now.Add(-2 * time.Hour), Items: []entity.SaleItem{item(800, "USD", entity.CategoryPhonesNew)}}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "cable", Category: "Cables", Stock: 0, Currency: "ARS"}))

	uc := NewDashboardUseCase(repos.Sales, inventory.NewReplenishmentUseCase(repos.Products, 3), fixedRate{rate: decimal.NewFromInt(1000)})
	uc.now = func() time.Time { return now }

	out, err := uc.Today(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, out.SaleCount)
	assert.Equal(t, 1, out.PhonesSold)
	assert.True(t, decimal.NewFromInt(2000).Equal(out.RevenueARS))
	assert.True(t, decimal.NewFromInt(1000).Equal(out.ProfitARS))
	assert.True(t, decimal.NewFromInt(800).Equal(out.RevenueUSD))
	assert.True(t, out.RateKnown)
	assert.Equal(t, 1, out.LowStockCount)
	assert.Equal(t, "16 de Octubre 2026", out.DateLabel)
}
