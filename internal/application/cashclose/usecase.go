package cashclose

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/ports"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/pkg/money"
)

// UseCase cierre de caja y retiros.
type UseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, repos repository.Repos) *UseCase {
	return &UseCase{txRunner: txRunner, repos: repos, now: time.Now}
}

// Preview totales del período abierto sin persistir.
func (uc *UseCase) Preview(ctx context.Context) (*dto.ClosureResponse, error) {
	c, err := uc.summarize(ctx, uc.repos, uc.now())
	if err != nil {
		return nil, err
	}
	return ToClosureResponse(c), nil
}

// Close persiste el cierre con timestamp = ahora. La lectura del período y el alta corren en la misma
// transacción, bajo el lock de período; ese timestamp es el inicio del período siguiente. Las ventas nunca se modifican.
func (uc *UseCase) Close(ctx context.Context, userID string) (*dto.ClosureResponse, error) {
	var c *entity.Closure
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := repos.Closures.LockPeriod(ctx); err != nil {
			return err
		}
		var err error
		c, err = uc.summarize(ctx, repos, uc.now())
		if err != nil {
			return err
		}
		c.ID = uuid.New().String()
		c.CreatedBy = userID
		return repos.Closures.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return ToClosureResponse(c), nil
}

// List cierres anteriores, más recientes primero.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ClosureResponse, error) {
	page.Normalize()
	list, err := uc.repos.Closures.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClosureResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *ToClosureResponse(c))
	}
	return out, nil
}

// Last último cierre; ErrNotFound si la caja nunca se cerró.
func (uc *UseCase) Last(ctx context.Context) (*dto.ClosureResponse, error) {
	c, err := uc.repos.Closures.Last(ctx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return ToClosureResponse(c), nil
}

// RegisterWithdrawal registra un retiro de caja. storeFallback es la sucursal del operador.
func (uc *UseCase) RegisterWithdrawal(ctx context.Context, userID, storeFallback string, in dto.CreateWithdrawalRequest) (*dto.WithdrawalResponse, error) {
	if in.Box != entity.BoxAccessories && in.Box != entity.BoxCellphones {
		return nil, domain.ErrInvalidInput
	}
	if in.Method != entity.WithdrawalCash && in.Method != entity.WithdrawalTransfer {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	currency := in.Currency
	if currency == "" {
		currency = money.ARS
	}
	if !money.IsCurrency(currency) {
		return nil, domain.ErrInvalidInput
	}
	store := in.Store
	if store == "" {
		store = storeFallback
	}
	if !entity.IsStore(store) {
		return nil, domain.ErrInvalidInput
	}
	w := &entity.CashWithdrawal{
		ID:        uuid.New().String(),
		Box:       in.Box,
		Method:    in.Method,
		Amount:    in.Amount,
		Currency:  currency,
		Note:      in.Note,
		Timestamp: uc.now(),
		Store:     store,
		CreatedBy: userID,
	}
	if err := uc.repos.Withdrawals.Create(ctx, w); err != nil {
		return nil, err
	}
	out := toWithdrawalResponse(*w)
	return &out, nil
}

// ListWithdrawals retiros del período abierto.
func (uc *UseCase) ListWithdrawals(ctx context.Context) ([]dto.WithdrawalResponse, error) {
	since, err := uc.lastTimestamp(ctx, uc.repos)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Withdrawals.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WithdrawalResponse, 0, len(list))
	for _, w := range list {
		out = append(out, toWithdrawalResponse(*w))
	}
	return out, nil
}

func (uc *UseCase) lastTimestamp(ctx context.Context, repos repository.Repos) (time.Time, error) {
	last, err := repos.Closures.Last(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if last == nil {
		return time.Time{}, nil
	}
	return last.Timestamp, nil
}

func (uc *UseCase) summarize(ctx context.Context, repos repository.Repos, now time.Time) (*entity.Closure, error) {
	since, err := uc.lastTimestamp(ctx, repos)
	if err != nil {
		return nil, err
	}
	sales, err := repos.Sales.ListOpenPeriod(ctx, since)
	if err != nil {
		return nil, err
	}
	list, err := repos.Products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	products := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		products[p.ID] = p
	}
	withdrawals, err := repos.Withdrawals.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}
	c := Summarize(sales, products, withdrawals, since)
	c.Timestamp = now
	return c, nil
}

// ToClosureResponse mapea el cierre a la salida HTTP.
func ToClosureResponse(c *entity.Closure) *dto.ClosureResponse {
	cats := make(map[string]dto.CurrencyAmountsDTO, len(c.PorCategoria))
	for k, v := range c.PorCategoria {
		cats[k] = dto.CurrencyAmountsDTO{ARS: v.ARS, USD: v.USD}
	}
	ws := make([]dto.WithdrawalResponse, 0, len(c.Withdrawals))
	for _, w := range c.Withdrawals {
		ws = append(ws, toWithdrawalResponse(w))
	}
	return &dto.ClosureResponse{
		ID:                        c.ID,
		Timestamp:                 c.Timestamp,
		PeriodStart:               c.PeriodStart,
		CantidadProductosVendidos: c.CantidadProductosVendidos,
		CantidadCelularesVendidos: c.CantidadCelularesVendidos,
		DineroTotal:               c.DineroTotal,
		DineroTotalEfectivo:       c.DineroTotalEfectivo,
		DineroTotalBanco:          c.DineroTotalBanco,
		DineroTotalTarjeta:        c.DineroTotalTarjeta,
		GananciasLimpias:          c.GananciasLimpias,
		DineroTotalUSD:            c.DineroTotalUSD,
		GananciasLimpiasUSD:       c.GananciasLimpiasUSD,
		DineroTotalEfectivoUSD:    c.DineroTotalEfectivoUSD,
		DineroTotalBancoUSD:       c.DineroTotalBancoUSD,
		EfectivoNeto:              c.EfectivoNeto,
		EfectivoNetoUSD:           c.EfectivoNetoUSD,
		PorCategoria:              cats,
		SaleCount:                 c.SaleCount,
		Withdrawals:               ws,
		DineroTotalFormatted:      money.FormatCurrency(c.DineroTotal),
		DineroTotalUSDFormatted:   money.FormatUSDCurrency(c.DineroTotalUSD),
	}
}

func toWithdrawalResponse(w entity.CashWithdrawal) dto.WithdrawalResponse {
	return dto.WithdrawalResponse{
		ID:        w.ID,
		Box:       w.Box,
		Method:    w.Method,
		Amount:    w.Amount,
		Currency:  w.Currency,
		Note:      w.Note,
		Timestamp: w.Timestamp,
		Store:     w.Store,
	}
}
