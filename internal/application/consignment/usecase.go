// Package consignment parlantes JBL: en modo inventario acompañan a un Product espejo; en consignación
// se venden sin tocar el inventario propio.
package consignment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/application/ports"
	"github.com/jhoicas/iMarket-api/internal/application/sales"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/pkg/money"
)

// UseCase JBL. Cada mutación verifica cargado = disponible + vendido antes de confirmar.
type UseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	ledger   *inventory.Ledger
	rates    ports.RateSource
	sales    *sales.UseCase
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	repos repository.Repos,
	ledger *inventory.Ledger,
	rates ports.RateSource,
	salesUC *sales.UseCase,
) *UseCase {
	return &UseCase{txRunner: txRunner, repos: repos, ledger: ledger, rates: rates, sales: salesUC}
}

// Create carga un parlante. En modo inventario crea el Product espejo con el mismo stock.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateJblRequest) (*dto.JblResponse, error) {
	if in.Name == "" || in.Quantity < 1 || !money.IsCurrency(in.Currency) || !entity.IsStore(in.Store) {
		return nil, domain.ErrInvalidInput
	}
	if in.StockMode != entity.StockModeInventory && in.StockMode != entity.StockModeConsignment {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	j := &entity.JblProduct{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Model:             in.Model,
		Price:             in.Price,
		Currency:          in.Currency,
		Cost:              in.Cost,
		QuantityLoaded:    in.Quantity,
		AvailableQuantity: in.Quantity,
		StockMode:         in.StockMode,
		Store:             in.Store,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if j.StockMode == entity.StockModeInventory {
			mirror := &entity.Product{
				ID:        uuid.New().String(),
				Name:      j.Name,
				Brand:     "JBL",
				Model:     j.Model,
				Category:  entity.CategoryJBL,
				Price:     j.Price,
				Currency:  j.Currency,
				Cost:      j.Cost,
				Stock:     j.AvailableQuantity,
				Store:     j.Store,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repos.Products.Create(ctx, mirror); err != nil {
				return err
			}
			if err := repos.Movements.Create(ctx, &entity.StockMovement{
				ProductID:  mirror.ID,
				Type:       entity.MovementRestock,
				Quantity:   mirror.Stock,
				StockAfter: mirror.Stock,
				Reference:  j.ID,
				Store:      mirror.Store,
				CreatedAt:  now,
				CreatedBy:  userID,
			}); err != nil {
				return err
			}
			j.LinkedProductID = mirror.ID
		}
		return repos.Jbl.Create(ctx, j)
	})
	if err != nil {
		return nil, err
	}
	return toJblResponse(j), nil
}

// Sell vende Quantity unidades: disponible −= qty, vendido += qty, el espejo (si existe) baja por el
// libro de stock y se emite una venta con origen consignment. Todo en una transacción.
func (uc *UseCase) Sell(ctx context.Context, userID, storeFallback, id string, in dto.JblQuantityRequest) (*dto.JblSellResponse, error) {
	if in.Quantity < 1 || (in.UnitPrice != nil && in.UnitPrice.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}
	method := in.PaymentMethod
	if method == "" {
		method = entity.PaymentCash
	}
	if !entity.IsPaymentMethod(method) {
		return nil, domain.ErrInvalidInput
	}
	rate, err := uc.rates.Current(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()

	var (
		j   *entity.JblProduct
		res *sales.Result
	)
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		j, err = repos.Jbl.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if j == nil {
			return domain.ErrNotFound
		}
		if in.Quantity > j.AvailableQuantity {
			return domain.ErrInsufficientStock
		}
		j.AvailableQuantity -= in.Quantity
		j.SoldQuantity += in.Quantity
		j.UpdatedAt = now
		if !j.Balanced() {
			return domain.ErrConflict
		}

		price := j.Price
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		itemID := j.ID
		if j.StockMode == entity.StockModeInventory {
			itemID = j.LinkedProductID
		}
		store := j.Store
		if store == "" {
			store = storeFallback
		}
		res, err = sales.ComposeInTx(ctx, repos, uc.ledger, sales.Draft{
			Items: []entity.SaleItem{{
				ProductID:   itemID,
				ProductName: j.Name,
				Category:    entity.CategoryJBL,
				Quantity:    in.Quantity,
				Price:       price,
				Currency:    j.Currency,
				Cost:        j.Cost,
				Provider:    "JBL",
				Consignment: j.StockMode == entity.StockModeConsignment,
			}},
			PaymentMethod: method,
			Split:         in.Split,
			Store:         store,
			Source:        entity.SaleSourceConsignment,
			UserID:        userID,
			Rate:          rate,
			Now:           now,
		}, j.StockMode == entity.StockModeInventory)
		if err != nil {
			return err
		}
		return repos.Jbl.Update(ctx, j)
	})
	if err != nil {
		return nil, err
	}
	uc.sales.Notify(res.Sale)
	return &dto.JblSellResponse{Product: *toJblResponse(j), Sale: *sales.ToSaleResponse(res.Sale)}, nil
}

// Load repone Quantity unidades: cargado y disponible suben juntos, y el espejo también.
func (uc *UseCase) Load(ctx context.Context, userID, id string, in dto.JblQuantityRequest) (*dto.JblResponse, error) {
	if in.Quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var j *entity.JblProduct
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		j, err = repos.Jbl.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if j == nil {
			return domain.ErrNotFound
		}
		j.QuantityLoaded += in.Quantity
		j.AvailableQuantity += in.Quantity
		j.UpdatedAt = now
		if !j.Balanced() {
			return domain.ErrConflict
		}
		if j.StockMode == entity.StockModeInventory {
			sr, err := uc.ledger.IncrementInTx(ctx, repos, inventory.StockChange{
				ProductID: j.LinkedProductID,
				Quantity:  in.Quantity,
				Type:      entity.MovementRestock,
				Reference: j.ID,
				UserID:    userID,
				Now:       now,
				Mirrored:  true,
			})
			if err != nil {
				return err
			}
			if sr == nil {
				log.Warn().Str("jbl_id", j.ID).Str("product_id", j.LinkedProductID).Msg("producto espejo JBL no encontrado al cargar")
			}
		}
		return repos.Jbl.Update(ctx, j)
	})
	if err != nil {
		return nil, err
	}
	return toJblResponse(j), nil
}

// List parlantes cargados.
func (uc *UseCase) List(ctx context.Context) ([]dto.JblResponse, error) {
	list, err := uc.repos.Jbl.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JblResponse, 0, len(list))
	for _, j := range list {
		out = append(out, *toJblResponse(j))
	}
	return out, nil
}

func toJblResponse(j *entity.JblProduct) *dto.JblResponse {
	return &dto.JblResponse{
		ID:                j.ID,
		Name:              j.Name,
		Model:             j.Model,
		Price:             j.Price,
		Currency:          j.Currency,
		Cost:              j.Cost,
		QuantityLoaded:    j.QuantityLoaded,
		AvailableQuantity: j.AvailableQuantity,
		SoldQuantity:      j.SoldQuantity,
		StockMode:         j.StockMode,
		LinkedProductID:   j.LinkedProductID,
		Store:             j.Store,
		CreatedAt:         j.CreatedAt,
		UpdatedAt:         j.UpdatedAt,
	}
}
