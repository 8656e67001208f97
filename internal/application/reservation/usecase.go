// Package reservation administra las señas: reservada → completada | cancelada.
package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/application/ports"
	"github.com/jhoicas/iMarket-api/internal/application/sales"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/pkg/money"
)

// UseCase ciclo de vida de las señas. Cada transición corre en una transacción: el stock, la marca de
// reservado, la venta del saldo y el estado de la seña cambian juntos o no cambian.
type UseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	ledger   *inventory.Ledger
	rates    ports.RateSource
	sales    *sales.UseCase
	days     int
	now      func() time.Time
}

// NewUseCase construye el caso de uso. days es el vencimiento por defecto de una seña.
func NewUseCase(
	txRunner ports.TxRunner,
	repos repository.Repos,
	ledger *inventory.Ledger,
	rates ports.RateSource,
	salesUC *sales.UseCase,
	days int,
) *UseCase {
	if days <= 0 {
		days = 7
	}
	return &UseCase{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		rates:    rates,
		sales:    salesUC,
		days:     days,
		now:      time.Now,
	}
}

// Create retiene Quantity unidades del producto. Montos en USD; el precio por defecto es el de lista
// (convertido si el producto está en ARS). 0 <= seña <= precio × cantidad.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateReserveRequest) (*dto.ReserveResponse, error) {
	if in.ProductID == "" || in.Quantity < 1 || in.CustomerName == "" || in.DownPayment.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.ProductPrice != nil && in.ProductPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	expiration := now.AddDate(0, 0, uc.days)
	if in.ExpirationDate != nil {
		if !in.ExpirationDate.After(now) {
			return nil, domain.ErrInvalidInput
		}
		expiration = *in.ExpirationDate
	}
	rate, err := uc.rates.Current(ctx)
	if err != nil {
		return nil, err
	}

	var r *entity.Reserve
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		p, err := repos.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Stock < in.Quantity {
			return domain.ErrInsufficientStock
		}
		price, err := uc.priceUSD(p, in.ProductPrice, rate)
		if err != nil {
			return err
		}
		total := price.Mul(decimal.NewFromInt(int64(in.Quantity)))
		if in.DownPayment.GreaterThan(total) {
			return domain.ErrInvalidInput
		}
		r = &entity.Reserve{
			ID:                   uuid.New().String(),
			Date:                 now,
			ExpirationDate:       expiration,
			CustomerID:           in.CustomerID,
			CustomerName:         in.CustomerName,
			CustomerDNI:          in.CustomerDNI,
			ProductID:            p.ID,
			ProductName:          p.Name,
			ProductPrice:         price,
			ProductStockSnapshot: p.Stock,
			ProductCost:          uc.costUSD(p, rate),
			ProductCategory:      p.Category,
			Provider:             p.Provider,
			Store:                p.Store,
			Quantity:             in.Quantity,
			DownPayment:          in.DownPayment,
			RemainingAmount:      total.Sub(in.DownPayment),
			Status:               entity.ReserveStatusReserved,
		}
		if _, err := uc.ledger.HoldInTx(ctx, repos, inventory.StockChange{
			ProductID: p.ID,
			Quantity:  in.Quantity,
			Type:      entity.MovementReserve,
			Reference: r.ID,
			UserID:    userID,
			Now:       now,
		}); err != nil {
			return err
		}
		return repos.Reserves.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return ToReserveResponse(r, now), nil
}

// Complete cobra el saldo: emite una venta solo por RemainingAmount (USD → ARS a la cotización actual),
// sin volver a descontar stock. Un celular nuevo/usado agotado se elimina recién acá.
func (uc *UseCase) Complete(ctx context.Context, userID, id string, in dto.CompleteReserveRequest) (*dto.CompleteReserveResponse, error) {
	if !entity.IsPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.PaymentMethod == entity.PaymentMultiple && in.Split == nil {
		return nil, domain.ErrPaymentMismatch
	}
	rate, err := uc.rates.Current(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	var (
		r   *entity.Reserve
		res *sales.Result
	)
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		r, err = repos.Reserves.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if !r.CanTransition(entity.ReserveStatusCompleted) {
			return domain.ErrInvalidTransition
		}
		res, err = sales.ComposeInTx(ctx, repos, uc.ledger, sales.Draft{
			CustomerID: r.CustomerID,
			Items: payoffLines(entity.SaleItem{
				ProductID:   r.ProductID,
				ProductName: r.ProductName,
				Category:    r.ProductCategory,
				Currency:    money.USD,
				Cost:        r.ProductCost,
				Provider:    r.Provider,
			}, r.RemainingAmount, r.Quantity),
			PaymentMethod: in.PaymentMethod,
			Split:         in.Split,
			Store:         r.Store,
			Source:        entity.SaleSourceReservation,
			ReserveID:     r.ID,
			UserID:        userID,
			Rate:          rate,
			Now:           now,
		}, false)
		if err != nil {
			return err
		}
		sr, err := uc.ledger.ReleaseReservedFlagInTx(ctx, repos, r.ProductID, r.ID, true, now)
		if err != nil {
			return err
		}
		if sr == nil {
			log.Warn().Str("reserve_id", r.ID).Str("product_id", r.ProductID).Msg("seña completada sin producto vinculado")
		} else if sr.Deleted {
			res.Deleted = append(res.Deleted, sr.ProductID)
		}
		r.Status = entity.ReserveStatusCompleted
		r.CompletedAt = &now
		r.SaleID = res.Sale.ID
		return repos.Reserves.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	uc.sales.Notify(res.Sale)
	sale := sales.ToSaleResponse(res.Sale)
	sale.DeletedProducts = res.Deleted
	return &dto.CompleteReserveResponse{Reserve: *ToReserveResponse(r, now), Sale: *sale}, nil
}

// payoffLines reparte el saldo en precios unitarios de centavos. Si no divide exacto, la última unidad
// va en una línea aparte con el resto, así Σ precio × cantidad es exactamente el saldo.
func payoffLines(base entity.SaleItem, remaining decimal.Decimal, qty int) []entity.SaleItem {
	if qty < 1 {
		qty = 1
	}
	n := decimal.NewFromInt(int64(qty))
	unit := remaining.Div(n).Truncate(2)
	line := base
	line.Quantity = qty
	line.Price = unit
	if unit.Mul(n).Equal(remaining) {
		return []entity.SaleItem{line}
	}
	line.Quantity = qty - 1
	last := base
	last.Quantity = 1
	last.Price = remaining.Sub(unit.Mul(decimal.NewFromInt(int64(qty - 1))))
	if line.Quantity == 0 {
		return []entity.SaleItem{last}
	}
	return []entity.SaleItem{line, last}
}

// Cancel devuelve las unidades al stock. Si el producto ya no existe se registra el aviso y la
// cancelación igual se confirma.
func (uc *UseCase) Cancel(ctx context.Context, userID, id string) (*dto.ReserveResponse, error) {
	now := uc.now()
	var r *entity.Reserve
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		r, err = repos.Reserves.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if !r.CanTransition(entity.ReserveStatusCancelled) {
			return domain.ErrInvalidTransition
		}
		sr, err := uc.ledger.IncrementInTx(ctx, repos, inventory.StockChange{
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			Type:      entity.MovementRelease,
			Reference: r.ID,
			UserID:    userID,
			Now:       now,
		})
		if err != nil {
			return err
		}
		if sr == nil {
			log.Warn().Str("reserve_id", r.ID).Str("product_id", r.ProductID).Msg("producto de la seña no encontrado al cancelar")
		} else if _, err := uc.ledger.ReleaseReservedFlagInTx(ctx, repos, r.ProductID, r.ID, false, now); err != nil {
			return err
		}
		r.Status = entity.ReserveStatusCancelled
		r.CancelledAt = &now
		return repos.Reserves.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return ToReserveResponse(r, now), nil
}

// Get obtiene una seña con el flag Expired calculado al momento de la lectura.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.ReserveResponse, error) {
	r, err := uc.repos.Reserves.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return ToReserveResponse(r, uc.now()), nil
}

// List lista señas por estado (vacío = todas).
func (uc *UseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]dto.ReserveResponse, error) {
	switch status {
	case "", entity.ReserveStatusReserved, entity.ReserveStatusCompleted, entity.ReserveStatusCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}
	page.Normalize()
	list, err := uc.repos.Reserves.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]dto.ReserveResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *ToReserveResponse(r, now))
	}
	return out, nil
}

func (uc *UseCase) priceUSD(p *entity.Product, override *decimal.Decimal, rate decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}
	if p.Currency == money.USD {
		return p.Price, nil
	}
	if !money.RateKnown(rate) {
		return decimal.Zero, domain.ErrRateUnavailable
	}
	return money.ToUSD(p.Price, rate), nil
}

// costUSD foto del costo en USD. Sin cotización un costo en ARS queda en 0 y se avisa en el log.
func (uc *UseCase) costUSD(p *entity.Product, rate decimal.Decimal) decimal.Decimal {
	if p.Currency == money.USD || p.Cost.IsZero() {
		return p.Cost
	}
	if !money.RateKnown(rate) {
		log.Warn().Str("product_id", p.ID).Msg("sin cotización: costo de la seña registrado en 0")
		return decimal.Zero
	}
	return money.ToUSD(p.Cost, rate)
}

// ToReserveResponse mapea la seña; Expired se deriva de now y nunca se persiste.
func ToReserveResponse(r *entity.Reserve, now time.Time) *dto.ReserveResponse {
	return &dto.ReserveResponse{
		ID:              r.ID,
		Date:            r.Date,
		ExpirationDate:  r.ExpirationDate,
		CustomerID:      r.CustomerID,
		CustomerName:    r.CustomerName,
		CustomerDNI:     r.CustomerDNI,
		ProductID:       r.ProductID,
		ProductName:     r.ProductName,
		ProductPrice:    r.ProductPrice,
		ProductStock:    r.ProductStockSnapshot,
		Quantity:        r.Quantity,
		DownPayment:     r.DownPayment,
		RemainingAmount: r.RemainingAmount,
		Status:          r.Status,
		Expired:         r.IsExpired(now),
		CompletedAt:     r.CompletedAt,
		CancelledAt:     r.CancelledAt,
		SaleID:          r.SaleID,
		Store:           r.Store,
	}
}
