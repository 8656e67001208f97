package provider_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/provider"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/infrastructure/memory"
)

func newProvider(t *testing.T) (*provider.UseCase, string) {
	t.Helper()
	store := memory.NewStore()
	uc := provider.NewUseCase(store.Repos().Providers)
	p, err := uc.Create(context.Background(), dto.CreateProviderRequest{Name: "Distribuidora Once"})
	require.NoError(t, err)
	return uc, p.ID
}

func TestAddTransaction_SaldoDeudaMenosPago(t *testing.T) {
	uc, id := newProvider(t)
	ctx := context.Background()
	steps := []dto.AddProviderTransactionRequest{
		{Type: entity.ProviderTxDebt, Amount: decimal.NewFromInt(1000), Detail: "10 fundas"},
		{Type: entity.ProviderTxPayment, Amount: decimal.NewFromInt(300)},
		{Type: entity.ProviderTxDebt, Amount: decimal.NewFromInt(200), Detail: "cargadores"},
	}
	var last *dto.ProviderResponse
	for _, s := range steps {
		var err error
		last, err = uc.AddTransaction(ctx, "u1", id, s)
		require.NoError(t, err)
	}
	assert.True(t, decimal.NewFromInt(900).Equal(last.Balance))

	ledger, err := uc.Ledger(ctx, id)
	require.NoError(t, err)
	require.Len(t, ledger.Transactions, 3)
	assert.True(t, decimal.NewFromInt(1000).Equal(ledger.Transactions[0].RunningBalance))
	assert.True(t, decimal.NewFromInt(700).Equal(ledger.Transactions[1].RunningBalance))
	assert.True(t, decimal.NewFromInt(900).Equal(ledger.Transactions[2].RunningBalance))
}

func TestAddTransaction_Validaciones(t *testing.T) {
	uc, id := newProvider(t)
	ctx := context.Background()

	_, err := uc.AddTransaction(ctx, "u1", id, dto.AddProviderTransactionRequest{Type: entity.ProviderTxDebt, Amount: decimal.NewFromInt(10), Detail: "  "})
	assert.ErrorIs(t, err, domain.ErrMissingDetail)
	_, err = uc.AddTransaction(ctx, "u1", id, dto.AddProviderTransactionRequest{Type: entity.ProviderTxPayment, Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.AddTransaction(ctx, "u1", id, dto.AddProviderTransactionRequest{Type: "credito", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.AddTransaction(ctx, "u1", "nope", dto.AddProviderTransactionRequest{Type: entity.ProviderTxPayment, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// el pago no exige detalle
	_, err = uc.AddTransaction(ctx, "u1", id, dto.AddProviderTransactionRequest{Type: entity.ProviderTxPayment, Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
}

// El saldo acumulado movimiento a movimiento coincide con el recalculado desde cero.
func TestSaldoIncrementalIgualAlRecalculado(t *testing.T) {
	uc, id := newProvider(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	expected := decimal.Zero
	for i := 0; i < 50; i++ {
		amount := decimal.NewFromInt(int64(rng.Intn(5000) + 1))
		req := dto.AddProviderTransactionRequest{Type: entity.ProviderTxPayment, Amount: amount}
		if rng.Intn(2) == 0 {
			req = dto.AddProviderTransactionRequest{Type: entity.ProviderTxDebt, Amount: amount, Detail: "compra"}
			expected = expected.Add(amount)
		} else {
			expected = expected.Sub(amount)
		}
		out, err := uc.AddTransaction(ctx, "u1", id, req)
		require.NoError(t, err)
		require.True(t, expected.Equal(out.Balance))
	}

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, expected.Equal(list[0].Balance))
}
