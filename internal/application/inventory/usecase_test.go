package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newInventory(t *testing.T) (*inventory.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return inventory.NewUseCase(store, store.Repos(), inventory.NewLedger()), store
}

func seedProduct(t *testing.T, store *memory.Store, p entity.Product) {
	t.Helper()
	require.NoError(t, store.Repos().Products.Create(context.Background(), &p))
}

func getProduct(t *testing.T, store *memory.Store, id string) *entity.Product {
	t.Helper()
	p, err := store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_DecrementCelularNuevoAgotadoSeElimina(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedProduct(t, store, entity.Product{ID: "iphone", Category: entity.CategoryPhonesNew, Stock: 1, Store: entity.StoreLocal1})

	var res *inventory.StockResult
	err := store.Run(ctx, func(repos repository.Repos) error {
		var err error
		res, err = inventory.NewLedger().DecrementInTx(ctx, repos, inventory.StockChange{
			ProductID: "iphone", Quantity: 1, Type: entity.MovementSale,
		})
		return err
	})
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.Nil(t, getProduct(t, store, "iphone"))
}

func TestLedger_DecrementAccesorioQuedaEnCero(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedProduct(t, store, entity.Product{ID: "funda", Category: "Fundas", Stock: 3, Store: entity.StoreLocal1})

	err := store.Run(ctx, func(repos repository.Repos) error {
		_, err := inventory.NewLedger().DecrementInTx(ctx, repos, inventory.StockChange{
			ProductID: "funda", Quantity: 3, Type: entity.MovementSale,
		})
		return err
	})
	require.NoError(t, err)
	p := getProduct(t, store, "funda")
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Stock)
}

func TestLedger_DecrementSinStockSuficiente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedProduct(t, store, entity.Product{ID: "cargador", Category: "Cargadores", Stock: 1})

	err := store.Run(ctx, func(repos repository.Repos) error {
		_, err := inventory.NewLedger().DecrementInTx(ctx, repos, inventory.StockChange{
			ProductID: "cargador", Quantity: 2, Type: entity.MovementSale,
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, getProduct(t, store, "cargador").Stock, "el stock no cambia")
}

func TestLedger_CelularGenericoNoSeElimina(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedProduct(t, store, entity.Product{ID: "cel", Category: entity.CategoryPhones, Stock: 1})

	err := store.Run(ctx, func(repos repository.Repos) error {
		_, err := inventory.NewLedger().DecrementInTx(ctx, repos, inventory.StockChange{
			ProductID: "cel", Quantity: 1, Type: entity.MovementSale,
		})
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, getProduct(t, store, "cel"))
}

func TestLedger_HoldNoEliminaYMarcaReservado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedProduct(t, store, entity.Product{ID: "usado", Category: entity.CategoryPhonesUsed, Stock: 1})

	err := store.Run(ctx, func(repos repository.Repos) error {
		_, err := inventory.NewLedger().HoldInTx(ctx, repos, inventory.StockChange{
			ProductID: "usado", Quantity: 1, Type: entity.MovementReserve,
		})
		return err
	})
	require.NoError(t, err)
	p := getProduct(t, store, "usado")
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Stock)
	assert.True(t, p.Reserved)
}

// ──────────────────────────────────────────────────────────────────────────────
// UseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_Validaciones(t *testing.T) {
	uc, _ := newInventory(t)
	_, err := uc.CreateProduct(context.Background(), "u1", dto.CreateProductRequest{
		Name: "Funda", Category: "Fundas", Currency: "EUR", Store: entity.StoreLocal1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.CreateProduct(context.Background(), "u1", dto.CreateProductRequest{
		Name: "Funda", Category: "Fundas", Currency: "ARS", Store: entity.StoreLocal1, Stock: 4,
		Price: decimal.NewFromInt(5000), Cost: decimal.NewFromInt(2000),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Stock)

	movs, err := uc.Movements(context.Background(), out.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementRestock, movs[0].Type)
}

func TestRestock_CostoPromedioPonderado(t *testing.T) {
	uc, store := newInventory(t)
	seedProduct(t, store, entity.Product{ID: "vidrio", Category: "Vidrios", Stock: 10, Cost: decimal.NewFromInt(100), Currency: "ARS"})

	unitCost := decimal.NewFromInt(200)
	out, err := uc.Restock(context.Background(), "u1", "vidrio", dto.RestockRequest{Quantity: 10, UnitCost: &unitCost})
	require.NoError(t, err)
	assert.Equal(t, 20, out.Stock)
	assert.True(t, decimal.NewFromInt(150).Equal(getProduct(t, store, "vidrio").Cost))
}

func TestRestock_ProductoInexistente(t *testing.T) {
	uc, _ := newInventory(t)
	_, err := uc.Restock(context.Background(), "u1", "nope", dto.RestockRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_LimitaACero(t *testing.T) {
	uc, store := newInventory(t)
	seedProduct(t, store, entity.Product{ID: "funda", Category: "Fundas", Stock: 2})

	out, err := uc.Adjust(context.Background(), "u1", "funda", dto.AdjustStockRequest{Delta: -5})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Stock)
	assert.False(t, out.Deleted)
}

func TestTransfer_Parcial(t *testing.T) {
	uc, store := newInventory(t)
	seedProduct(t, store, entity.Product{ID: "funda", Name: "Funda", Category: "Fundas", Stock: 5, Store: entity.StoreLocal1})

	out, err := uc.Transfer(context.Background(), "u1", "funda", dto.TransferRequest{Quantity: 2, ToStore: entity.StoreLocal2})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Source.Stock)
	assert.Equal(t, 2, out.Destination.Stock)
	assert.Equal(t, entity.StoreLocal2, out.Destination.Store)
	assert.NotEqual(t, "funda", out.Destination.ID)
}

func TestTransfer_TotalCambiaSucursal(t *testing.T) {
	uc, store := newInventory(t)
	seedProduct(t, store, entity.Product{ID: "iphone", Category: entity.CategoryPhonesNew, Stock: 1, Store: entity.StoreLocal1})

	out, err := uc.Transfer(context.Background(), "u1", "iphone", dto.TransferRequest{Quantity: 1, ToStore: entity.StoreLocal2})
	require.NoError(t, err)
	assert.Equal(t, "iphone", out.Destination.ID)
	assert.Equal(t, entity.StoreLocal2, getProduct(t, store, "iphone").Store)
}

func TestTransfer_MismaSucursalYStockInsuficiente(t *testing.T) {
	uc, store := newInventory(t)
	seedProduct(t, store, entity.Product{ID: "funda", Category: "Fundas", Stock: 1, Store: entity.StoreLocal1})

	_, err := uc.Transfer(context.Background(), "u1", "funda", dto.TransferRequest{Quantity: 1, ToStore: entity.StoreLocal1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Transfer(context.Background(), "u1", "funda", dto.TransferRequest{Quantity: 2, ToStore: entity.StoreLocal2})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reposición y valorización
// ──────────────────────────────────────────────────────────────────────────────

func TestLowStock_ExcluyeCelularesEIncluyeAgotados(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, entity.Product{ID: "a", Name: "Funda", Category: "Fundas", Stock: 0})
	seedProduct(t, store, entity.Product{ID: "b", Name: "Cable", Category: "Cables", Stock: 2})
	seedProduct(t, store, entity.Product{ID: "c", Name: "Cargador", Category: "Cargadores", Stock: 10})
	seedProduct(t, store, entity.Product{ID: "d", Name: "Moto", Category: entity.CategoryPhones, Stock: 0})

	uc := inventory.NewReplenishmentUseCase(store.Repos().Products, 3)
	list, err := uc.LowStock(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ProductID)
	assert.Equal(t, "b", list[1].ProductID)
}

func TestValuation_PorMoneda(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, entity.Product{ID: "a", Stock: 2, Currency: "ARS", Cost: decimal.NewFromInt(100), Price: decimal.NewFromInt(300)})
	seedProduct(t, store, entity.Product{ID: "b", Stock: 1, Currency: "USD", Cost: decimal.NewFromInt(500), Price: decimal.NewFromInt(800)})
	seedProduct(t, store, entity.Product{ID: "c", Stock: 0, Currency: "USD", Cost: decimal.NewFromInt(500)})

	v, err := inventory.NewReplenishmentUseCase(store.Repos().Products, 3).Valuation(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(200).Equal(v.CostARS))
	assert.True(t, decimal.NewFromInt(500).Equal(v.CostUSD))
	assert.True(t, decimal.NewFromInt(800).Equal(v.PriceUSD))
	assert.Equal(t, 3, v.Units)
}

func TestListProducts_TotalIgnoraLaPagina(t *testing.T) {
	uc, store := newInventory(t)
	for _, id := range []string{"a", "b", "c"} {
		seedProduct(t, store, entity.Product{ID: id, Category: "Fundas", Stock: 1, Store: entity.StoreLocal1})
	}
	seedProduct(t, store, entity.Product{ID: "d", Category: "Fundas", Stock: 0, Store: entity.StoreLocal1})
	seedProduct(t, store, entity.Product{ID: "e", Category: "Fundas", Stock: 4, Store: entity.StoreLocal2})

	out, err := uc.ListProducts(context.Background(), repository.ProductFilter{Store: entity.StoreLocal1, InStock: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "a", out.Items[0].ID)
	assert.Equal(t, 3, out.Page.Total)
	assert.True(t, out.Page.HasMore)

	out, err = uc.ListProducts(context.Background(), repository.ProductFilter{Store: entity.StoreLocal1, InStock: true, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 3, out.Page.Total)
	assert.False(t, out.Page.HasMore)

	out, err = uc.ListProducts(context.Background(), repository.ProductFilter{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, dto.MaxPageLimit, out.Page.Limit)
	assert.Equal(t, 5, out.Page.Total)
}
