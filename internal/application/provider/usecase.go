// Package provider cuenta corriente con proveedores: deudas y pagos, solo se agregan.
package provider

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
)

// UseCase proveedores. El saldo nunca se guarda: se recalcula del historial completo en cada lectura.
type UseCase struct {
	repo repository.ProviderRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ProviderRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Create da de alta un proveedor.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateProviderRequest) (*dto.ProviderResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	p := &entity.Provider{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     in.Phone,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProviderResponse(p, decimal.Zero), nil
}

// List proveedores con su saldo.
func (uc *UseCase) List(ctx context.Context) ([]dto.ProviderResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProviderResponse, 0, len(list))
	for _, p := range list {
		txs, err := uc.repo.ListTransactions(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *toProviderResponse(p, entity.ProviderBalance(txs)))
	}
	return out, nil
}

// Ledger cuenta corriente en orden cronológico con el saldo acumulado en cada movimiento.
func (uc *UseCase) Ledger(ctx context.Context, providerID string) (*dto.ProviderLedgerResponse, error) {
	p, err := uc.repo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	txs, err := uc.repo.ListTransactions(ctx, providerID)
	if err != nil {
		return nil, err
	}
	running := decimal.Zero
	items := make([]dto.ProviderTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		running = entity.ProviderBalance([]*entity.ProviderTransaction{tx}).Add(running)
		items = append(items, dto.ProviderTransactionResponse{
			ID:             tx.ID,
			Type:           tx.Type,
			Amount:         tx.Amount,
			Detail:         tx.Detail,
			CreatedAt:      tx.CreatedAt,
			RunningBalance: running,
		})
	}
	return &dto.ProviderLedgerResponse{
		Provider:     *toProviderResponse(p, entity.ProviderBalance(txs)),
		Transactions: items,
	}, nil
}

// AddTransaction agrega una deuda o un pago (monto > 0). El detalle es obligatorio para las deudas.
// Devuelve el proveedor con el saldo recalculado.
func (uc *UseCase) AddTransaction(ctx context.Context, userID, providerID string, in dto.AddProviderTransactionRequest) (*dto.ProviderResponse, error) {
	if in.Type != entity.ProviderTxDebt && in.Type != entity.ProviderTxPayment {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	detail := strings.TrimSpace(in.Detail)
	if in.Type == entity.ProviderTxDebt && detail == "" {
		return nil, domain.ErrMissingDetail
	}
	p, err := uc.repo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.CreateTransaction(ctx, &entity.ProviderTransaction{
		ID:         uuid.New().String(),
		ProviderID: providerID,
		Type:       in.Type,
		Amount:     in.Amount,
		Detail:     detail,
		CreatedAt:  time.Now(),
		CreatedBy:  userID,
	}); err != nil {
		return nil, err
	}
	txs, err := uc.repo.ListTransactions(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return toProviderResponse(p, entity.ProviderBalance(txs)), nil
}

func toProviderResponse(p *entity.Provider, balance decimal.Decimal) *dto.ProviderResponse {
	return &dto.ProviderResponse{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		Balance:   balance,
		CreatedAt: p.CreatedAt,
	}
}
