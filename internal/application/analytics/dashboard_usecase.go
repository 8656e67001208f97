// Package analytics contiene el dashboard en vivo del día.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/application/ports"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/pkg/money"
)

// DashboardUseCase resumen del día: ventas desde las 00:00, cotización e inventario.
//
// A diferencia del cierre de caja, las ventas sin fecha no cuentan para "hoy".
type DashboardUseCase struct {
	saleRepo      repository.SaleRepository
	replenishment *inventory.ReplenishmentUseCase
	rates         ports.RateSource
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	saleRepo repository.SaleRepository,
	replenishment *inventory.ReplenishmentUseCase,
	rates ports.RateSource,
) *DashboardUseCase {
	return &DashboardUseCase{
		saleRepo:      saleRepo,
		replenishment: replenishment,
		rates:         rates,
		now:           time.Now,
	}
}

// Today construye el DashboardTodayDTO. store vacío = ambas sucursales.
//
// Cuatro lecturas en paralelo:
//  1. Ventas de hoy      → unidades, ingresos y ganancia por moneda
//  2. Cotización vigente → RateKnown
//  3. Valorización       → Inventory
//  4. Stock bajo         → LowStockCount
func (uc *DashboardUseCase) Today(ctx context.Context, store string) (*dto.DashboardTodayDTO, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var (
		sales     []*entity.Sale
		rate      decimal.Decimal
		valuation *dto.ValuationDTO
		lowStock  []dto.LowStockDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = uc.saleRepo.List(gctx, repository.SaleFilter{From: &todayStart, Store: store})
		if err != nil {
			return fmt.Errorf("dashboard: ventas de hoy: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if rate, err = uc.rates.Current(gctx); err != nil {
			return fmt.Errorf("dashboard: cotización: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if valuation, err = uc.replenishment.Valuation(gctx, store); err != nil {
			return fmt.Errorf("dashboard: valorización: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if lowStock, err = uc.replenishment.LowStock(gctx, store, 0); err != nil {
			return fmt.Errorf("dashboard: stock bajo: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardTodayDTO{
		RevenueARS:     decimal.Zero,
		RevenueUSD:     decimal.Zero,
		ProfitARS:      decimal.Zero,
		ProfitUSD:      decimal.Zero,
		TotalAmountARS: decimal.Zero,
		USDRate:        rate,
		RateKnown:      money.RateKnown(rate),
		Inventory:      *valuation,
		LowStockCount:  len(lowStock),
		DateLabel:      dayLabel(now),
	}
	for _, s := range sales {
		if s.Date.IsZero() || s.Date.Before(todayStart) {
			continue
		}
		out.SaleCount++
		out.TotalAmountARS = out.TotalAmountARS.Add(s.TotalAmount)
		for _, it := range s.Items {
			revenue := it.Subtotal()
			profit := revenue.Sub(it.TotalCost())
			out.UnitsSold += it.Quantity
			if entity.IsPhoneCategory(it.Category) {
				out.PhonesSold += it.Quantity
			}
			if it.Currency == money.USD {
				out.RevenueUSD = out.RevenueUSD.Add(revenue)
				out.ProfitUSD = out.ProfitUSD.Add(profit)
			} else {
				out.RevenueARS = out.RevenueARS.Add(revenue)
				out.ProfitARS = out.ProfitARS.Add(profit)
			}
		}
	}
	return out, nil
}

// dayLabel devuelve una etiqueta legible del día, ej: "16 de Octubre 2026".
func dayLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%d de %s %d", t.Day(), months[t.Month()-1], t.Year())
}
