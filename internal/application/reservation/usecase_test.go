package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/application/sales"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixedRate struct{ rate decimal.Decimal }

func (f fixedRate) Current(context.Context) (decimal.Decimal, error) { return f.rate, nil }

var t0 = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newReservation(t *testing.T) (*UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewLedger()
	rates := fixedRate{rate: dec(1000)}
	salesUC := sales.NewUseCase(store, store.Repos(), ledger, rates, nil)
	uc := NewUseCase(store, store.Repos(), ledger, rates, salesUC, 7)
	uc.now = func() time.Time { return t0 }
	return uc, store
}

func seed(t *testing.T, store *memory.Store, p entity.Product) {
	t.Helper()
	if p.Store == "" {
		p.Store = entity.StoreLocal1
	}
	require.NoError(t, store.Repos().Products.Create(context.Background(), &p))
}

func product(t *testing.T, store *memory.Store, id string) *entity.Product {
	t.Helper()
	p, err := store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func reserveReq(productID string, qty int, down int64) dto.CreateReserveRequest {
	return dto.CreateReserveRequest{
		ProductID:    productID,
		Quantity:     qty,
		DownPayment:  dec(down),
		CustomerName: "Juan Pérez",
		CustomerDNI:  "30111222",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_RetieneStockYCalculaSaldo(t *testing.T) {
	uc, store := newReservation(t)
	seed(t, store, entity.Product{ID: "p1", Name: "iPhone 13", Category: entity.CategoryPhonesNew, Stock: 1, Price: dec(500), Currency: "USD"})

	r, err := uc.Create(context.Background(), "u1", reserveReq("p1", 1, 100))
	require.NoError(t, err)
	assert.True(t, dec(400).Equal(r.RemainingAmount))
	assert.Equal(t, entity.ReserveStatusReserved, r.Status)
	assert.Equal(t, t0.AddDate(0, 0, 7), r.ExpirationDate)
	assert.Equal(t, 1, r.ProductStock)

	p := product(t, store, "p1")
	require.NotNil(t, p, "retener nunca elimina el celular")
	assert.Equal(t, 0, p.Stock)
	assert.True(t, p.Reserved)
}

func TestCreate_Rechazos(t *testing.T) {
	uc, store := newReservation(t)
	seed(t, store, entity.Product{ID: "p1", Category: "Fundas", Stock: 1, Price: dec(10), Currency: "USD"})

	_, err := uc.Create(context.Background(), "u1", reserveReq("p1", 2, 0))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.Create(context.Background(), "u1", reserveReq("p1", 1, 11))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la seña no puede superar el precio")

	_, err = uc.Create(context.Background(), "u1", reserveReq("nope", 1, 0))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 1, product(t, store, "p1").Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_DevuelveStock(t *testing.T) {
	uc, store := newReservation(t)
	seed(t, store, entity.Product{ID: "p1", Category: entity.CategoryPhonesUsed, Stock: 1, Price: dec(500), Currency: "USD"})

	r, err := uc.Create(context.Background(), "u1", reserveReq("p1", 1, 100))
	require.NoError(t, err)

	out, err := uc.Cancel(context.Background(), "u1", r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReserveStatusCancelled, out.Status)
	require.NotNil(t, out.CancelledAt)

	p := product(t, store, "p1")
	assert.Equal(t, 1, p.Stock)
	assert.False(t, p.Reserved)

	_, err = uc.Cancel(context.Background(), "u1", r.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.Complete(context.Background(), "u1", r.ID, dto.CompleteReserveRequest{PaymentMethod: entity.PaymentCash})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 1, product(t, store, "p1").Stock, "una transición inválida no toca el stock")
}

func TestCancel_ProductoBorradoIgualCancela(t *testing.T) {
	uc, store := newReservation(t)
	seed(t, store, entity.Product{ID: "p1", Category: "Fundas", Stock: 1, Price: dec(10), Currency: "USD"})
	r, err := uc.Create(context.Background(), "u1", reserveReq("p1", 1, 0))
	require.NoError(t, err)
	require.NoError(t, store.Repos().Products.Delete(context.Background(), "p1"))

	out, err := uc.Cancel(context.Background(), "u1", r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReserveStatusCancelled, out.Status)
}

func TestCancel_OtraSeñaActivaMantieneReservado(t *testing.T) {
	uc, store := newReservation(t)
	seed(t, store, entity.Product{ID: "p1", Category: "Fundas", Stock: 2, Price: dec(10), Currency: "USD"})
	r1, err := uc.Create(context.Background(), "u1", reserveReq("p1", 1, 0))
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), "u1", reserveReq("p1", 1, 0))
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), "u1", r1.ID)
	require.NoError(t, err)
	p := product(t, store, "p1")
	assert.Equal(t, 1, p.Stock)
	assert.True(t, p.Reserved)
}

// ──────────────────────────────────────────────────────────────────────────────
// Complete
// ──────────────────────────────────────────────────────────────────────────────

func TestComplete_VentaPorSaldoYEliminaCelular(t *testing.T) {
	uc, store := newReservation(t)
	seed(t, store, entity.Product{ID: "p1", Name: "iPhone 13", Category: entity.CategoryPhonesNew, Stock: 1, Price: dec(500), Cost: dec(350), Currency: "USD"})
	r, err := uc.Create(context.Background(), "u1", reserveReq("p1", 1, 100))
	require.NoError(t, err)

	out, err := uc.Complete(context.Background(), "u1", r.ID, dto.CompleteReserveRequest{PaymentMethod: entity.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, entity.ReserveStatusCompleted, out.Reserve.Status)
	assert.Equal(t, out.Sale.ID, out.Reserve.SaleID)
	assert.True(t, dec(400000).Equal(out.Sale.TotalAmount), "solo se cobra el saldo: 400 USD × 1000")
	assert.Equal(t, entity.SaleSourceReservation, out.Sale.Source)
	assert.Equal(t, []string{"p1"}, out.Sale.DeletedProducts)
	assert.Nil(t, product(t, store, "p1"))
}

func TestComplete_SaldoNoDivisibleQuedaEnCentavos(t *testing.T) {
	uc, store := newReservation(t)
	seed(t, store, entity.Product{ID: "p1", Name: "Funda", Category: "Fundas", Stock: 3, Price: dec(50), Currency: "USD"})
	r, err := uc.Create(context.Background(), "u1", reserveReq("p1", 3, 50))
	require.NoError(t, err)

	out, err := uc.Complete(context.Background(), "u1", r.ID, dto.CompleteReserveRequest{PaymentMethod: entity.PaymentCash})
	require.NoError(t, err)
	assert.True(t, dec(100000).Equal(out.Sale.TotalAmount), "100 USD × 1000")
	require.Len(t, out.Sale.Items, 2)
	assert.Equal(t, 2, out.Sale.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("33.33").Equal(out.Sale.Items[0].Price))
	assert.Equal(t, 1, out.Sale.Items[1].Quantity)
	assert.True(t, decimal.RequireFromString("33.34").Equal(out.Sale.Items[1].Price))
}

func TestPayoffLines(t *testing.T) {
	base := entity.SaleItem{ProductID: "p1", Currency: "USD"}

	exact := payoffLines(base, dec(90), 3)
	require.Len(t, exact, 1)
	assert.Equal(t, 3, exact[0].Quantity)
	assert.True(t, dec(30).Equal(exact[0].Price))

	single := payoffLines(base, decimal.RequireFromString("10.005"), 1)
	require.Len(t, single, 1)
	assert.Equal(t, 1, single[0].Quantity)
	assert.True(t, decimal.RequireFromString("10.005").Equal(single[0].Price))

	for _, qty := range []int{2, 3, 7} {
		lines := payoffLines(base, dec(100), qty)
		sum, units := decimal.Zero, 0
		for _, l := range lines {
			assert.True(t, l.Price.Equal(l.Price.Truncate(2)), "precio en centavos")
			sum = sum.Add(l.Subtotal())
			units += l.Quantity
		}
		assert.True(t, dec(100).Equal(sum))
		assert.Equal(t, qty, units)
	}
}

func TestComplete_PagoMultipleNoConcilia(t *testing.T) {
	uc, store := newReservation(t)
	seed(t, store, entity.Product{ID: "p1", Category: "Fundas", Stock: 1, Price: dec(10), Currency: "USD"})
	r, err := uc.Create(context.Background(), "u1", reserveReq("p1", 1, 0))
	require.NoError(t, err)

	_, err = uc.Complete(context.Background(), "u1", r.ID, dto.CompleteReserveRequest{
		PaymentMethod: entity.PaymentMultiple,
		Split:         &dto.PaymentSplit{CashAmount: dec(1)},
	})
	assert.ErrorIs(t, err, domain.ErrPaymentMismatch)

	got, err := uc.Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReserveStatusReserved, got.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Vencimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestExpired_EsDerivadoYNoCambiaEstado(t *testing.T) {
	uc, store := newReservation(t)
	seed(t, store, entity.Product{ID: "p1", Category: "Fundas", Stock: 1, Price: dec(10), Currency: "USD"})
	r, err := uc.Create(context.Background(), "u1", reserveReq("p1", 1, 0))
	require.NoError(t, err)
	assert.False(t, r.Expired)

	uc.now = func() time.Time { return t0.AddDate(0, 0, 8) }
	got, err := uc.Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.True(t, got.Expired)
	assert.Equal(t, entity.ReserveStatusReserved, got.Status)

	list, err := uc.List(context.Background(), entity.ReserveStatusReserved, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Expired)
}

// La suma de stock + unidades retenidas se conserva ante cualquier secuencia crear/cancelar.
func TestStockConservado(t *testing.T) {
	uc, store := newReservation(t)
	seed(t, store, entity.Product{ID: "p1", Category: "Fundas", Stock: 5, Price: dec(10), Currency: "USD"})

	var ids []string
	for i := 0; i < 3; i++ {
		r, err := uc.Create(context.Background(), "u1", reserveReq("p1", 1, 0))
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}
	_, err := uc.Cancel(context.Background(), "u1", ids[1])
	require.NoError(t, err)

	held := 0
	list, err := uc.List(context.Background(), entity.ReserveStatusReserved, dto.PageRequest{})
	require.NoError(t, err)
	for _, r := range list {
		held += r.Quantity
	}
	assert.Equal(t, 5, product(t, store, "p1").Stock+held)
}
