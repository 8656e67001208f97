// Package cashclose agrega las ventas del período abierto (desde el último cierre) y persiste el cierre de caja.
package cashclose

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/pkg/money"
)

// InOpenPeriod una venta pertenece al período abierto si su fecha es posterior al último cierre.
// Las ventas sin fecha se incluyen siempre (el dashboard de hoy, en cambio, las excluye).
func InOpenPeriod(s *entity.Sale, since time.Time) bool {
	return s.Date.IsZero() || s.Date.After(since)
}

// CategoryGroup agrupa la categoría del ítem para el desglose del cierre.
func CategoryGroup(category string) string {
	switch category {
	case entity.CategoryPhonesNew:
		return entity.ClosureGroupPhonesNew
	case entity.CategoryPhonesUsed:
		return entity.ClosureGroupPhonesUsed
	}
	return entity.ClosureGroupOther
}

// Summarize calcula los totales del período abierto. products se usa como respaldo del costo cuando la
// línea no trae la foto del costo. No persiste nada.
func Summarize(sales []*entity.Sale, products map[string]*entity.Product, withdrawals []*entity.CashWithdrawal, since time.Time) *entity.Closure {
	c := &entity.Closure{
		PeriodStart:            since,
		DineroTotal:            decimal.Zero,
		DineroTotalEfectivo:    decimal.Zero,
		DineroTotalBanco:       decimal.Zero,
		DineroTotalTarjeta:     decimal.Zero,
		GananciasLimpias:       decimal.Zero,
		DineroTotalUSD:         decimal.Zero,
		GananciasLimpiasUSD:    decimal.Zero,
		DineroTotalEfectivoUSD: decimal.Zero,
		DineroTotalBancoUSD:    decimal.Zero,
		PorCategoria:           make(map[string]entity.CurrencyAmounts),
	}
	for _, g := range []string{entity.ClosureGroupPhonesNew, entity.ClosureGroupPhonesUsed, entity.ClosureGroupOther} {
		c.PorCategoria[g] = entity.CurrencyAmounts{ARS: decimal.Zero, USD: decimal.Zero}
	}

	for _, s := range sales {
		if !InOpenPeriod(s, since) {
			continue
		}
		c.SaleCount++
		for _, it := range s.Items {
			revenue := it.Subtotal()
			profit := revenue.Sub(lineCost(it, products))
			c.CantidadProductosVendidos += it.Quantity
			if entity.IsPhoneWithMandatoryDeletion(it.Category) {
				c.CantidadCelularesVendidos += it.Quantity
			}

			group := CategoryGroup(it.Category)
			amounts := c.PorCategoria[group]
			if it.Currency == money.USD {
				c.DineroTotalUSD = c.DineroTotalUSD.Add(revenue)
				c.GananciasLimpiasUSD = c.GananciasLimpiasUSD.Add(profit)
				amounts.USD = amounts.USD.Add(revenue)
			} else {
				c.DineroTotal = c.DineroTotal.Add(revenue)
				c.GananciasLimpias = c.GananciasLimpias.Add(profit)
				amounts.ARS = amounts.ARS.Add(revenue)
			}
			c.PorCategoria[group] = amounts

			if s.PaymentMethod != entity.PaymentMultiple {
				bucketLine(c, s, it.Currency, revenue)
			}
		}
		if s.PaymentMethod == entity.PaymentMultiple {
			bucketSplit(c, s)
		}
	}

	c.EfectivoNeto = c.DineroTotalEfectivo
	c.EfectivoNetoUSD = c.DineroTotalEfectivoUSD
	for _, w := range withdrawals {
		if !w.Timestamp.After(since) {
			continue
		}
		c.Withdrawals = append(c.Withdrawals, *w)
		if w.Method != entity.WithdrawalCash {
			continue
		}
		if w.Currency == money.USD {
			c.EfectivoNetoUSD = c.EfectivoNetoUSD.Sub(w.Amount)
		} else {
			c.EfectivoNeto = c.EfectivoNeto.Sub(w.Amount)
		}
	}
	return c
}

// lineCost costo total de la línea: foto del costo de la venta, o el costo actual del producto si la
// foto está vacía y el producto sigue existiendo en la misma moneda.
func lineCost(it entity.SaleItem, products map[string]*entity.Product) decimal.Decimal {
	if !it.Cost.IsZero() {
		return it.TotalCost()
	}
	if p, ok := products[it.ProductID]; ok && p != nil && p.Currency == it.Currency {
		return p.Cost.Mul(decimal.NewFromInt(int64(it.Quantity)))
	}
	return decimal.Zero
}

// bucketLine asigna el monto de una línea al medio de pago de la venta: "efectivo*" a efectivo,
// "*transfer*" a banco, tarjeta a tarjeta (siempre ARS, a la cotización de la venta).
func bucketLine(c *entity.Closure, s *entity.Sale, currency string, amount decimal.Decimal) {
	usd := currency == money.USD
	switch {
	case entity.IsCashMethod(s.PaymentMethod):
		if usd {
			c.DineroTotalEfectivoUSD = c.DineroTotalEfectivoUSD.Add(amount)
		} else {
			c.DineroTotalEfectivo = c.DineroTotalEfectivo.Add(amount)
		}
	case entity.IsBankMethod(s.PaymentMethod):
		if usd {
			c.DineroTotalBancoUSD = c.DineroTotalBancoUSD.Add(amount)
		} else {
			c.DineroTotalBanco = c.DineroTotalBanco.Add(amount)
		}
	case s.PaymentMethod == entity.PaymentCard:
		if usd {
			amount = money.ToARS(amount, s.USDRate)
		}
		c.DineroTotalTarjeta = c.DineroTotalTarjeta.Add(amount)
	}
}

func bucketSplit(c *entity.Closure, s *entity.Sale) {
	if s.CashAmount != nil {
		c.DineroTotalEfectivo = c.DineroTotalEfectivo.Add(*s.CashAmount)
	}
	if s.TransferAmount != nil {
		c.DineroTotalBanco = c.DineroTotalBanco.Add(*s.TransferAmount)
	}
	if s.CardAmount != nil {
		c.DineroTotalTarjeta = c.DineroTotalTarjeta.Add(*s.CardAmount)
	}
	if s.CashUSDAmount != nil {
		c.DineroTotalEfectivoUSD = c.DineroTotalEfectivoUSD.Add(*s.CashUSDAmount)
	}
}
