package sales

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/application/ports"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/pkg/money"
)

// UseCase ventas de mostrador. Una venta es inmutable: solo alta y consulta.
type UseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	ledger   *inventory.Ledger
	rates    ports.RateSource
	observer ports.SaleObserver
}

// NewUseCase construye el caso de uso. observer puede ser nil.
func NewUseCase(
	txRunner ports.TxRunner,
	repos repository.Repos,
	ledger *inventory.Ledger,
	rates ports.RateSource,
	observer ports.SaleObserver,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		rates:    rates,
		observer: observer,
	}
}

// Create arma la venta desde el carrito. storeFallback es la sucursal del operador si el body no trae una.
// Precio nil = precio de lista; precio 0 = regalo (ganancia 0 − costo). Todo ocurre en una transacción:
// o se descuenta el stock y se guarda la venta, o no cambia nada.
func (uc *UseCase) Create(ctx context.Context, userID, storeFallback string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 || !entity.IsPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if it.Currency != "" && !money.IsCurrency(it.Currency) {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.PaymentMethod == entity.PaymentMultiple && in.Split == nil {
		return nil, domain.ErrPaymentMismatch
	}
	store := in.Store
	if store == "" {
		store = storeFallback
	}
	if !entity.IsStore(store) {
		return nil, domain.ErrInvalidInput
	}
	rate, err := uc.rates.Current(ctx)
	if err != nil {
		return nil, err
	}

	var res *Result
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		items, err := uc.buildItems(ctx, repos, in.Items, rate)
		if err != nil {
			return err
		}
		res, err = ComposeInTx(ctx, repos, uc.ledger, Draft{
			CustomerID:    in.CustomerID,
			Items:         items,
			PaymentMethod: in.PaymentMethod,
			Split:         in.Split,
			Store:         store,
			Source:        entity.SaleSourcePOS,
			UserID:        userID,
			Rate:          rate,
			Now:           time.Now(),
		}, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notify(res.Sale)
	if len(res.Deleted) > 0 {
		log.Info().Str("sale_id", res.Sale.ID).Strs("products", res.Deleted).Msg("celulares agotados eliminados del catálogo")
	}
	out := ToSaleResponse(res.Sale)
	out.DeletedProducts = res.Deleted
	return out, nil
}

// buildItems lee cada producto con bloqueo de fila y toma la foto de nombre, categoría, costo y proveedor.
func (uc *UseCase) buildItems(ctx context.Context, repos repository.Repos, lines []dto.SaleItemRequest, rate decimal.Decimal) ([]entity.SaleItem, error) {
	items := make([]entity.SaleItem, 0, len(lines))
	requested := make(map[string]int, len(lines))
	for _, l := range lines {
		p, err := repos.Products.GetForUpdate(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		requested[p.ID] += l.Quantity
		if requested[p.ID] > p.Stock {
			return nil, domain.ErrInsufficientStock
		}
		currency := l.Currency
		if currency == "" {
			currency = p.Currency
		}
		price := p.Price
		if l.UnitPrice != nil {
			price = *l.UnitPrice
		} else if currency != p.Currency {
			if price, err = convert(p.Price, p.Currency, currency, rate); err != nil {
				return nil, err
			}
		}
		cost, err := convert(p.Cost, p.Currency, currency, rate)
		if err != nil {
			return nil, err
		}
		items = append(items, entity.SaleItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Category:    p.Category,
			Quantity:    l.Quantity,
			Price:       price,
			Currency:    currency,
			Cost:        cost,
			Provider:    p.Provider,
		})
	}
	return items, nil
}

// Get obtiene una venta; ErrNotFound si no existe.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return ToSaleResponse(s), nil
}

// List ventas por rango de fechas y sucursal, más recientes primero.
func (uc *UseCase) List(ctx context.Context, filter repository.SaleFilter) (*dto.SaleListResponse, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	list, err := uc.repos.Sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.repos.Sales.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.NewPageResponse(page, total),
	}, nil
}

// Notify avisa al observer de una venta emitida por otro caso de uso (seña, JBL).
func (uc *UseCase) Notify(sale *entity.Sale) {
	uc.notify(sale)
}

func (uc *UseCase) notify(sale *entity.Sale) {
	if uc.observer != nil && sale != nil {
		uc.observer.SaleCommitted(sale)
	}
}

// ToSaleResponse mapea la venta a la salida HTTP, con la ganancia por línea en su moneda.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Category:    it.Category,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Currency:    it.Currency,
			Cost:        it.Cost,
			Provider:    it.Provider,
			Profit:      it.Subtotal().Sub(it.TotalCost()),
			Consignment: it.Consignment,
		})
	}
	return &dto.SaleResponse{
		ID:             s.ID,
		Date:           s.Date,
		CustomerID:     s.CustomerID,
		Items:          items,
		PaymentMethod:  s.PaymentMethod,
		CashAmount:     s.CashAmount,
		TransferAmount: s.TransferAmount,
		CardAmount:     s.CardAmount,
		CashUSDAmount:  s.CashUSDAmount,
		TotalAmount:    s.TotalAmount,
		TotalFormatted: money.FormatCurrency(s.TotalAmount),
		USDRate:        s.USDRate,
		Store:          s.Store,
		Source:         s.Source,
		ReserveID:      s.ReserveID,
	}
}
