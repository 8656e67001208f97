package memory

import (
	"maps"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/domain/entity"
)

func cloneDecimalPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func cloneSale(s entity.Sale) entity.Sale {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	s.CashAmount = cloneDecimalPtr(s.CashAmount)
	s.TransferAmount = cloneDecimalPtr(s.TransferAmount)
	s.CardAmount = cloneDecimalPtr(s.CardAmount)
	s.CashUSDAmount = cloneDecimalPtr(s.CashUSDAmount)
	return s
}

func cloneReserve(r entity.Reserve) entity.Reserve {
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		r.CompletedAt = &t
	}
	if r.CancelledAt != nil {
		t := *r.CancelledAt
		r.CancelledAt = &t
	}
	return r
}

func cloneClosure(c entity.Closure) entity.Closure {
	c.PorCategoria = maps.Clone(c.PorCategoria)
	c.Withdrawals = append([]entity.CashWithdrawal(nil), c.Withdrawals...)
	return c
}
