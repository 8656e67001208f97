package cashclose

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/memory"
)

var t0 = time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := dec(v)
	return &d
}

func sale(id string, at time.Time, method string, items ...entity.SaleItem) *entity.Sale {
	return &entity.Sale{ID: id, Date: at, PaymentMethod: method, Items: items, USDRate: dec(1000)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Summarize
// ──────────────────────────────────────────────────────────────────────────────

func TestSummarize_SoloVentasPosterioresAlCierre(t *testing.T) {
	sales := []*entity.Sale{
		sale("antes", t0.Add(-time.Second), entity.PaymentCash, entity.SaleItem{Quantity: 1, Price: dec(100), Currency: "ARS"}),
		sale("despues", t0.Add(time.Second), entity.PaymentCash, entity.SaleItem{Quantity: 1, Price: dec(300), Currency: "ARS"}),
	}
	c := Summarize(sales, nil, nil, t0)
	assert.Equal(t, 1, c.SaleCount)
	assert.True(t, dec(300).Equal(c.DineroTotal))
}

func TestSummarize_VentaSinFechaSeIncluye(t *testing.T) {
	sales := []*entity.Sale{
		sale("sin-fecha", time.Time{}, entity.PaymentCash, entity.SaleItem{Quantity: 1, Price: dec(50), Currency: "ARS"}),
	}
	c := Summarize(sales, nil, nil, t0)
	assert.Equal(t, 1, c.SaleCount)
}

func TestSummarize_MonedasCategoriasYGanancias(t *testing.T) {
	sales := []*entity.Sale{
		sale("s1", t0.Add(time.Hour), entity.PaymentCashUSD,
			entity.SaleItem{ProductID: "iphone", Category: entity.CategoryPhonesNew, Quantity: 1, Price: dec(900), Cost: dec(700), Currency: "USD"}),
		sale("s2", t0.Add(time.Hour), entity.PaymentTransfer,
			entity.SaleItem{ProductID: "funda", Category: "Fundas", Quantity: 3, Price: dec(1000), Currency: "ARS"}),
		sale("s3", t0.Add(time.Hour), entity.PaymentTransferUSDT,
			entity.SaleItem{ProductID: "moto", Category: entity.CategoryPhonesUsed, Quantity: 1, Price: dec(200), Cost: dec(150), Currency: "USD"}),
		sale("s4", t0.Add(time.Hour), entity.PaymentCard,
			entity.SaleItem{ProductID: "cable", Category: "Cables", Quantity: 1, Price: dec(1), Currency: "USD"}),
	}
	products := map[string]*entity.Product{
		"funda": {ID: "funda", Cost: dec(400), Currency: "ARS"},
	}
	c := Summarize(sales, products, nil, t0)

	assert.Equal(t, 6, c.CantidadProductosVendidos)
	assert.Equal(t, 2, c.CantidadCelularesVendidos)
	assert.True(t, dec(3000).Equal(c.DineroTotal))
	assert.True(t, dec(1101).Equal(c.DineroTotalUSD))
	assert.True(t, dec(1800).Equal(c.GananciasLimpias), "costo tomado del producto: 3000 − 3×400")
	assert.True(t, dec(251).Equal(c.GananciasLimpiasUSD))
	assert.True(t, dec(900).Equal(c.DineroTotalEfectivoUSD))
	assert.True(t, dec(3000).Equal(c.DineroTotalBanco))
	assert.True(t, dec(200).Equal(c.DineroTotalBancoUSD))
	assert.True(t, dec(1000).Equal(c.DineroTotalTarjeta), "tarjeta siempre en ARS")
	assert.True(t, dec(900).Equal(c.PorCategoria[entity.ClosureGroupPhonesNew].USD))
	assert.True(t, dec(200).Equal(c.PorCategoria[entity.ClosureGroupPhonesUsed].USD))
	assert.True(t, dec(3000).Equal(c.PorCategoria[entity.ClosureGroupOther].ARS))
}

func TestSummarize_PagoMultipleUsaMontosExplicitos(t *testing.T) {
	s := sale("m", t0.Add(time.Hour), entity.PaymentMultiple, entity.SaleItem{Quantity: 1, Price: dec(2000), Currency: "ARS"})
	s.CashAmount = decPtr(500)
	s.TransferAmount = decPtr(400)
	s.CardAmount = decPtr(100)
	s.CashUSDAmount = decPtr(1)
	c := Summarize([]*entity.Sale{s}, nil, nil, t0)
	assert.True(t, dec(500).Equal(c.DineroTotalEfectivo))
	assert.True(t, dec(400).Equal(c.DineroTotalBanco))
	assert.True(t, dec(100).Equal(c.DineroTotalTarjeta))
	assert.True(t, dec(1).Equal(c.DineroTotalEfectivoUSD))
}

func TestSummarize_RetirosDescuentanEfectivo(t *testing.T) {
	sales := []*entity.Sale{
		sale("s", t0.Add(time.Hour), entity.PaymentCash, entity.SaleItem{Quantity: 1, Price: dec(1000), Currency: "ARS"}),
	}
	withdrawals := []*entity.CashWithdrawal{
		{Box: entity.BoxAccessories, Method: entity.WithdrawalCash, Amount: dec(300), Currency: "ARS", Timestamp: t0.Add(2 * time.Hour)},
		{Box: entity.BoxAccessories, Method: entity.WithdrawalTransfer, Amount: dec(100), Currency: "ARS", Timestamp: t0.Add(2 * time.Hour)},
		{Box: entity.BoxCellphones, Method: entity.WithdrawalCash, Amount: dec(999), Currency: "ARS", Timestamp: t0.Add(-time.Hour)},
	}
	c := Summarize(sales, nil, withdrawals, t0)
	assert.Len(t, c.Withdrawals, 2)
	assert.True(t, dec(700).Equal(c.EfectivoNeto))
	assert.True(t, dec(1000).Equal(c.DineroTotalEfectivo), "los retiros no modifican las ventas")
}

// ──────────────────────────────────────────────────────────────────────────────
// UseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_DefineInicioDelPeriodoSiguiente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := NewUseCase(store, store.Repos())

	require.NoError(t, store.Repos().Sales.Create(ctx,
		sale("antes", t0.Add(-time.Second), entity.PaymentCash, entity.SaleItem{Quantity: 1, Price: dec(100), Currency: "ARS"})))
	uc.now = func() time.Time { return t0 }
	first, err := uc.Close(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, first.SaleCount)
	assert.NotEmpty(t, first.ID)

	require.NoError(t, store.Repos().Sales.Create(ctx,
		sale("despues", t0.Add(time.Second), entity.PaymentCash, entity.SaleItem{Quantity: 1, Price: dec(300), Currency: "ARS"})))
	uc.now = func() time.Time { return t0.Add(time.Hour) }
	preview, err := uc.Preview(ctx)
	require.NoError(t, err)
	assert.Empty(t, preview.ID)
	assert.Equal(t, 1, preview.SaleCount)
	assert.True(t, dec(300).Equal(preview.DineroTotal))
	assert.Equal(t, t0, preview.PeriodStart)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1, "la vista previa no persiste")
}

func TestClose_ConcurrentesNoRepitenElPeriodo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := NewUseCase(store, store.Repos())
	var tick atomic.Int64
	uc.now = func() time.Time { return t0.Add(time.Duration(tick.Add(1)) * time.Minute) }

	require.NoError(t, store.Repos().Sales.Create(ctx,
		sale("s1", t0.Add(-time.Second), entity.PaymentCash, entity.SaleItem{Quantity: 1, Price: dec(100), Currency: "ARS"})))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Close(ctx, "admin")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := store.Repos().Closures.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].PeriodStart.Equal(list[1].Timestamp))
	assert.Equal(t, 1, list[0].SaleCount+list[1].SaleCount)
}

func TestRegisterWithdrawal_Validaciones(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := NewUseCase(store, store.Repos())
	uc.now = func() time.Time { return t0 }

	_, err := uc.RegisterWithdrawal(ctx, "u1", entity.StoreLocal1, dto.CreateWithdrawalRequest{Box: "caja", Method: entity.WithdrawalCash, Amount: dec(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterWithdrawal(ctx, "u1", entity.StoreLocal1, dto.CreateWithdrawalRequest{Box: entity.BoxAccessories, Method: entity.WithdrawalCash})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	w, err := uc.RegisterWithdrawal(ctx, "u1", entity.StoreLocal1, dto.CreateWithdrawalRequest{Box: entity.BoxAccessories, Method: entity.WithdrawalCash, Amount: dec(50)})
	require.NoError(t, err)
	assert.Equal(t, "ARS", w.Currency)
	assert.Equal(t, entity.StoreLocal1, w.Store)

	list, err := uc.ListWithdrawals(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
