package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/ports"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/internal/domain/stock"
	"github.com/jhoicas/iMarket-api/pkg/money"
)

// UseCase operaciones de catálogo y stock. Toda mutación corre en una transacción (TxRunner.Run)
// con bloqueo de fila sobre el producto.
type UseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	ledger   *Ledger
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(txRunner ports.TxRunner, repos repository.Repos, ledger *Ledger) *UseCase {
	return &UseCase{txRunner: txRunner, repos: repos, ledger: ledger}
}

// CreateProduct carga un producto al catálogo.
func (uc *UseCase) CreateProduct(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || !entity.IsStore(in.Store) || !money.IsCurrency(in.Currency) || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Brand:     in.Brand,
		Model:     in.Model,
		Category:  in.Category,
		Price:     in.Price,
		Currency:  in.Currency,
		Cost:      in.Cost,
		Provider:  in.Provider,
		Stock:     in.Stock,
		Store:     in.Store,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		if p.Stock == 0 {
			return nil
		}
		return repos.Movements.Create(ctx, &entity.StockMovement{
			ProductID:  p.ID,
			Type:       entity.MovementRestock,
			Quantity:   p.Stock,
			StockAfter: p.Stock,
			Reference:  "alta",
			Store:      p.Store,
			CreatedAt:  now,
			CreatedBy:  userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(p), nil
}

// GetProduct obtiene un producto; ErrNotFound si no existe.
func (uc *UseCase) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(p), nil
}

// ListProducts lista productos por sucursal, opcionalmente solo con stock.
func (uc *UseCase) ListProducts(ctx context.Context, filter repository.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Store != "" && !entity.IsStore(filter.Store) {
		return nil, domain.ErrInvalidInput
	}
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	list, err := uc.repos.Products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.repos.Products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.NewPageResponse(page, total),
	}, nil
}

// Restock suma unidades. Si llega UnitCost se recalcula el costo con promedio ponderado.
func (uc *UseCase) Restock(ctx context.Context, userID, productID string, in dto.RestockRequest) (*dto.StockChangeResponse, error) {
	if in.Quantity <= 0 || (in.UnitCost != nil && in.UnitCost.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}
	var res *StockResult
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		now := time.Now()
		if in.UnitCost != nil {
			p, err := repos.Products.GetForUpdate(ctx, productID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			p.Cost = stock.CostCalculator(p.Stock, p.Cost, in.Quantity, *in.UnitCost)
			p.UpdatedAt = now
			if err := repos.Products.Update(ctx, p); err != nil {
				return err
			}
		}
		var err error
		res, err = uc.ledger.IncrementInTx(ctx, repos, StockChange{
			ProductID: productID,
			Quantity:  in.Quantity,
			Type:      entity.MovementRestock,
			Reference: "reposición",
			UserID:    userID,
			Now:       now,
		})
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toStockChangeResponse(res), nil
}

// Adjust ajuste manual con delta con signo; el resultado se limita a 0 y un celular agotado se elimina.
func (uc *UseCase) Adjust(ctx context.Context, userID, productID string, in dto.AdjustStockRequest) (*dto.StockChangeResponse, error) {
	if in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	var res *StockResult
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		res, err = uc.ledger.AdjustInTx(ctx, repos, StockChange{
			ProductID: productID,
			Type:      entity.MovementAdjust,
			Reference: in.Note,
			UserID:    userID,
			Now:       time.Now(),
		}, in.Delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.Deleted {
		log.Info().Str("product_id", productID).Msg("celular eliminado por ajuste a stock 0")
	}
	return toStockChangeResponse(res), nil
}

// Transfer mueve Quantity unidades a la otra sucursal. Si se mueve todo el stock el producto cambia de
// sucursal; si no, se crea una copia en destino con las unidades transferidas.
func (uc *UseCase) Transfer(ctx context.Context, userID, productID string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if in.Quantity <= 0 || !entity.IsStore(in.ToStore) {
		return nil, domain.ErrInvalidInput
	}
	var out dto.TransferResponse
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		now := time.Now()
		p, err := repos.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Store == in.ToStore {
			return domain.ErrInvalidInput
		}
		if p.Category == entity.CategoryJBL {
			j, err := repos.Jbl.GetByLinkedProduct(ctx, p.ID)
			if err != nil {
				return err
			}
			if j != nil {
				// el parlante JBL fija la sucursal de su espejo
				return domain.ErrConflict
			}
		}
		if p.Stock < in.Quantity {
			return domain.ErrInsufficientStock
		}
		if p.Stock == in.Quantity {
			from := p.Store
			p.Store = in.ToStore
			p.UpdatedAt = now
			if err := repos.Products.Update(ctx, p); err != nil {
				return err
			}
			if err := uc.recordTransfer(ctx, repos, p, from, userID, now); err != nil {
				return err
			}
			out.Source = dto.StockChangeResponse{ProductID: p.ID, Stock: p.Stock, Product: ToProductResponse(p)}
			out.Destination = *ToProductResponse(p)
			return nil
		}

		res, err := uc.ledger.DecrementInTx(ctx, repos, StockChange{
			ProductID: p.ID,
			Quantity:  in.Quantity,
			Type:      entity.MovementTransfer,
			Reference: "a " + in.ToStore,
			UserID:    userID,
			Now:       now,
		})
		if err != nil {
			return err
		}
		copyP := *p
		copyP.ID = uuid.New().String()
		copyP.Stock = in.Quantity
		copyP.Store = in.ToStore
		copyP.Reserved = false
		copyP.CreatedAt = now
		copyP.UpdatedAt = now
		if err := repos.Products.Create(ctx, &copyP); err != nil {
			return err
		}
		if err := repos.Movements.Create(ctx, &entity.StockMovement{
			ProductID:  copyP.ID,
			Type:       entity.MovementTransfer,
			Quantity:   copyP.Stock,
			StockAfter: copyP.Stock,
			Reference:  "desde " + p.Store,
			Store:      copyP.Store,
			CreatedAt:  now,
			CreatedBy:  userID,
		}); err != nil {
			return err
		}
		out.Source = *toStockChangeResponse(res)
		out.Destination = *ToProductResponse(&copyP)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Movements historial de auditoría de un producto.
func (uc *UseCase) Movements(ctx context.Context, productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	page.Normalize()
	list, err := uc.repos.Movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:         m.ID,
			ProductID:  m.ProductID,
			Type:       m.Type,
			Quantity:   m.Quantity,
			StockAfter: m.StockAfter,
			Reference:  m.Reference,
			Store:      m.Store,
			CreatedAt:  m.CreatedAt,
			CreatedBy:  m.CreatedBy,
		})
	}
	return out, nil
}

func (uc *UseCase) recordTransfer(ctx context.Context, repos repository.Repos, p *entity.Product, from, userID string, now time.Time) error {
	if err := repos.Movements.Create(ctx, &entity.StockMovement{
		ProductID:  p.ID,
		Type:       entity.MovementTransfer,
		Quantity:   -p.Stock,
		StockAfter: 0,
		Reference:  "a " + p.Store,
		Store:      from,
		CreatedAt:  now,
		CreatedBy:  userID,
	}); err != nil {
		return err
	}
	return repos.Movements.Create(ctx, &entity.StockMovement{
		ProductID:  p.ID,
		Type:       entity.MovementTransfer,
		Quantity:   p.Stock,
		StockAfter: p.Stock,
		Reference:  "desde " + from,
		Store:      p.Store,
		CreatedAt:  now,
		CreatedBy:  userID,
	})
}

// ToProductResponse mapea la entidad a la salida HTTP.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Model:     p.Model,
		Category:  p.Category,
		Price:     p.Price,
		Currency:  p.Currency,
		Cost:      p.Cost,
		Provider:  p.Provider,
		Stock:     p.Stock,
		Store:     p.Store,
		Reserved:  p.Reserved,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toStockChangeResponse(r *StockResult) *dto.StockChangeResponse {
	return &dto.StockChangeResponse{
		ProductID: r.ProductID,
		Stock:     r.Stock,
		Deleted:   r.Deleted,
		Product:   ToProductResponse(r.Product),
	}
}
