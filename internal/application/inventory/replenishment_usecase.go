package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/pkg/money"
)

// ReplenishmentUseCase reportes de reposición y valorización sobre el catálogo propio.
type ReplenishmentUseCase struct {
	productRepo      repository.ProductRepository
	defaultThreshold int
}

// NewReplenishmentUseCase construye el caso de uso. defaultThreshold se usa cuando el caller no indica umbral.
func NewReplenishmentUseCase(productRepo repository.ProductRepository, defaultThreshold int) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo, defaultThreshold: defaultThreshold}
}

// LowStock devuelve los productos que no son celulares con stock <= threshold (threshold <= 0 usa el default).
// Los accesorios en 0 quedan incluidos: justamente por eso no se eliminan al agotarse.
// store vacío = ambas sucursales.
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context, store string, threshold int) ([]dto.LowStockDTO, error) {
	if threshold <= 0 {
		threshold = uc.defaultThreshold
	}
	list, err := uc.productRepo.List(ctx, repository.ProductFilter{Store: store})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockDTO, 0)
	for _, p := range list {
		if entity.IsPhoneCategory(p.Category) || p.Stock > threshold {
			continue
		}
		out = append(out, dto.LowStockDTO{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Store:     p.Store,
			Stock:     p.Stock,
			Provider:  p.Provider,
		})
	}
	// Primero los agotados, luego por nombre.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Valuation Σ costo × stock y Σ precio × stock por moneda. La mercadería en consignación no tiene
// Product y por lo tanto nunca se cuenta.
func (uc *ReplenishmentUseCase) Valuation(ctx context.Context, store string) (*dto.ValuationDTO, error) {
	list, err := uc.productRepo.List(ctx, repository.ProductFilter{Store: store, InStock: true})
	if err != nil {
		return nil, err
	}
	v := &dto.ValuationDTO{
		CostARS:  decimal.Zero,
		CostUSD:  decimal.Zero,
		PriceARS: decimal.Zero,
		PriceUSD: decimal.Zero,
	}
	for _, p := range list {
		qty := decimal.NewFromInt(int64(p.Stock))
		v.Units += p.Stock
		if p.Currency == money.USD {
			v.CostUSD = v.CostUSD.Add(p.Cost.Mul(qty))
			v.PriceUSD = v.PriceUSD.Add(p.Price.Mul(qty))
			continue
		}
		v.CostARS = v.CostARS.Add(p.Cost.Mul(qty))
		v.PriceARS = v.PriceARS.Add(p.Price.Mul(qty))
	}
	return v, nil
}
