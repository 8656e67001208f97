package consignment_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/iMarket-api/internal/application/consignment"
	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/application/reservation"
	"github.com/jhoicas/iMarket-api/internal/application/sales"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/memory"
)

type fixedRate struct{ rate decimal.Decimal }

func (f fixedRate) Current(context.Context) (decimal.Decimal, error) { return f.rate, nil }

func newConsignment(t *testing.T) (*consignment.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewLedger()
	rates := fixedRate{rate: decimal.NewFromInt(1000)}
	salesUC := sales.NewUseCase(store, store.Repos(), ledger, rates, nil)
	return consignment.NewUseCase(store, store.Repos(), ledger, rates, salesUC), store
}

func createReq(mode string, qty int) dto.CreateJblRequest {
	return dto.CreateJblRequest{
		Name:      "JBL Flip 6",
		Model:     "Flip 6",
		Price:     decimal.NewFromInt(150),
		Currency:  "USD",
		Cost:      decimal.NewFromInt(100),
		Quantity:  qty,
		StockMode: mode,
		Store:     entity.StoreLocal1,
	}
}

func TestModoInventario_EspejoAcompañaCadaVenta(t *testing.T) {
	uc, store := newConsignment(t)
	ctx := context.Background()

	j, err := uc.Create(ctx, "u1", createReq(entity.StockModeInventory, 5))
	require.NoError(t, err)
	require.NotEmpty(t, j.LinkedProductID)

	out, err := uc.Sell(ctx, "u1", entity.StoreLocal1, j.ID, dto.JblQuantityRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Product.AvailableQuantity)
	assert.Equal(t, 2, out.Product.SoldQuantity)
	assert.Equal(t, 5, out.Product.QuantityLoaded)
	assert.Equal(t, entity.SaleSourceConsignment, out.Sale.Source)
	assert.True(t, decimal.NewFromInt(300000).Equal(out.Sale.TotalAmount))

	mirror, err := store.Repos().Products.GetByID(ctx, j.LinkedProductID)
	require.NoError(t, err)
	require.NotNil(t, mirror)
	assert.Equal(t, 3, mirror.Stock)

	loaded, err := uc.Load(ctx, "u1", j.ID, dto.JblQuantityRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.QuantityLoaded)
	assert.Equal(t, 7, loaded.AvailableQuantity)
	mirror, _ = store.Repos().Products.GetByID(ctx, j.LinkedProductID)
	assert.Equal(t, 7, mirror.Stock)
}

func TestModoConsignacion_NoTocaInventario(t *testing.T) {
	uc, store := newConsignment(t)
	ctx := context.Background()

	j, err := uc.Create(ctx, "u1", createReq(entity.StockModeConsignment, 2))
	require.NoError(t, err)
	assert.Empty(t, j.LinkedProductID)

	products, err := store.Repos().Products.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, products)

	out, err := uc.Sell(ctx, "u1", entity.StoreLocal1, j.ID, dto.JblQuantityRequest{Quantity: 1})
	require.NoError(t, err)
	assert.True(t, out.Sale.Items[0].Consignment)

	_, err = uc.Sell(ctx, "u1", entity.StoreLocal1, j.ID, dto.JblQuantityRequest{Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].AvailableQuantity)
	assert.Equal(t, list[0].QuantityLoaded, list[0].AvailableQuantity+list[0].SoldQuantity)
}

func TestSell_PagoRechazadoNoMueveCantidades(t *testing.T) {
	uc, _ := newConsignment(t)
	ctx := context.Background()
	j, err := uc.Create(ctx, "u1", createReq(entity.StockModeConsignment, 2))
	require.NoError(t, err)

	_, err = uc.Sell(ctx, "u1", entity.StoreLocal1, j.ID, dto.JblQuantityRequest{
		Quantity:      1,
		PaymentMethod: entity.PaymentMultiple,
		Split:         &dto.PaymentSplit{CashAmount: decimal.NewFromInt(1)},
	})
	assert.ErrorIs(t, err, domain.ErrPaymentMismatch)

	list, _ := uc.List(ctx)
	assert.Equal(t, 2, list[0].AvailableQuantity)
	assert.Equal(t, 0, list[0].SoldQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Espejo modificado desde el inventario general
// ──────────────────────────────────────────────────────────────────────────────

type posFixture struct {
	jbl       *consignment.UseCase
	sales     *sales.UseCase
	inventory *inventory.UseCase
	reserves  *reservation.UseCase
	store     *memory.Store
}

func newPOSFixture(t *testing.T) posFixture {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewLedger()
	rates := fixedRate{rate: decimal.NewFromInt(1000)}
	salesUC := sales.NewUseCase(store, store.Repos(), ledger, rates, nil)
	return posFixture{
		jbl:       consignment.NewUseCase(store, store.Repos(), ledger, rates, salesUC),
		sales:     salesUC,
		inventory: inventory.NewUseCase(store, store.Repos(), ledger),
		reserves:  reservation.NewUseCase(store, store.Repos(), ledger, rates, salesUC, 7),
		store:     store,
	}
}

func jblByID(t *testing.T, uc *consignment.UseCase, id string) dto.JblResponse {
	t.Helper()
	list, err := uc.List(context.Background())
	require.NoError(t, err)
	for _, j := range list {
		if j.ID == id {
			return j
		}
	}
	t.Fatalf("parlante %s no encontrado", id)
	return dto.JblResponse{}
}

func TestVentaDeMostradorDelEspejoActualizaJBL(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()
	j, err := f.jbl.Create(ctx, "u1", createReq(entity.StockModeInventory, 2))
	require.NoError(t, err)

	_, err = f.sales.Create(ctx, "u1", entity.StoreLocal1, dto.CreateSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: j.LinkedProductID, Quantity: 1}},
		PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)

	got := jblByID(t, f.jbl, j.ID)
	assert.Equal(t, 1, got.AvailableQuantity)
	assert.Equal(t, 1, got.SoldQuantity)
	assert.Equal(t, 2, got.QuantityLoaded)

	// la unidad restante se puede vender por el circuito JBL
	out, err := f.jbl.Sell(ctx, "u1", entity.StoreLocal1, j.ID, dto.JblQuantityRequest{Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Product.AvailableQuantity)
	assert.Equal(t, 2, out.Product.SoldQuantity)

	_, err = f.jbl.Sell(ctx, "u1", entity.StoreLocal1, j.ID, dto.JblQuantityRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAjusteYReposicionDelEspejoMuevenLoCargado(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()
	j, err := f.jbl.Create(ctx, "u1", createReq(entity.StockModeInventory, 4))
	require.NoError(t, err)

	_, err = f.inventory.Adjust(ctx, "u1", j.LinkedProductID, dto.AdjustStockRequest{Delta: -1, Note: "roto"})
	require.NoError(t, err)
	got := jblByID(t, f.jbl, j.ID)
	assert.Equal(t, 3, got.AvailableQuantity)
	assert.Equal(t, 3, got.QuantityLoaded)
	assert.Equal(t, 0, got.SoldQuantity)

	_, err = f.inventory.Restock(ctx, "u1", j.LinkedProductID, dto.RestockRequest{Quantity: 2})
	require.NoError(t, err)
	got = jblByID(t, f.jbl, j.ID)
	assert.Equal(t, 5, got.AvailableQuantity)
	assert.Equal(t, 5, got.QuantityLoaded)

	mirror, err := f.store.Repos().Products.GetByID(ctx, j.LinkedProductID)
	require.NoError(t, err)
	assert.Equal(t, got.AvailableQuantity, mirror.Stock)
}

func TestSeñaDelEspejoRetieneYDevuelveUnidades(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()
	j, err := f.jbl.Create(ctx, "u1", createReq(entity.StockModeInventory, 3))
	require.NoError(t, err)

	res, err := f.reserves.Create(ctx, "u1", dto.CreateReserveRequest{
		ProductID:    j.LinkedProductID,
		Quantity:     2,
		DownPayment:  decimal.NewFromInt(50),
		CustomerName: "Ana",
	})
	require.NoError(t, err)
	got := jblByID(t, f.jbl, j.ID)
	assert.Equal(t, 1, got.AvailableQuantity)
	assert.Equal(t, 2, got.SoldQuantity)

	_, err = f.reserves.Cancel(ctx, "u1", res.ID)
	require.NoError(t, err)
	got = jblByID(t, f.jbl, j.ID)
	assert.Equal(t, 3, got.AvailableQuantity)
	assert.Equal(t, 0, got.SoldQuantity)
	assert.Equal(t, 3, got.QuantityLoaded)
}

func TestTrasladoDelEspejoRechazado(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()
	j, err := f.jbl.Create(ctx, "u1", createReq(entity.StockModeInventory, 3))
	require.NoError(t, err)

	_, err = f.inventory.Transfer(ctx, "u1", j.LinkedProductID, dto.TransferRequest{Quantity: 1, ToStore: entity.StoreLocal2})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
