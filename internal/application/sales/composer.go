// Package sales arma y persiste ventas: totales en ARS, conciliación del pago múltiple, descuento de stock
// y alta de la venta en una única transacción.
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/inventory"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/pkg/money"
)

// Draft venta armada, lista para validar el pago y persistir.
type Draft struct {
	CustomerID    string
	Items         []entity.SaleItem
	PaymentMethod string
	Split         *dto.PaymentSplit
	Store         string
	Source        string
	ReserveID     string
	UserID        string
	Rate          decimal.Decimal
	Now           time.Time
}

// Result venta persistida y los celulares eliminados del catálogo por agotarse.
type Result struct {
	Sale    *entity.Sale
	Deleted []string
}

// TotalARS Σ precio × cantidad con las líneas en USD convertidas a la cotización dada.
// Una línea en USD con cotización desconocida es ErrRateUnavailable: nunca se convierte a 0.
func TotalARS(items []entity.SaleItem, rate decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range items {
		sub := it.Subtotal()
		if it.Currency == money.USD && !sub.IsZero() {
			if !money.RateKnown(rate) {
				return decimal.Zero, domain.ErrRateUnavailable
			}
			sub = money.ToARS(sub, rate)
		}
		total = total.Add(sub)
	}
	return total, nil
}

// ValidatePayment valida el medio de pago. Para "multiple" exige montos no negativos y que
// efectivo + transferencia + tarjeta + efectivoUSD × cotización concilie con el total (±0,01).
func ValidatePayment(method string, split *dto.PaymentSplit, totalARS, rate decimal.Decimal) error {
	if !entity.IsPaymentMethod(method) {
		return domain.ErrInvalidInput
	}
	if method != entity.PaymentMultiple {
		return nil
	}
	if split == nil {
		return domain.ErrPaymentMismatch
	}
	if split.CashAmount.IsNegative() || split.TransferAmount.IsNegative() ||
		split.CardAmount.IsNegative() || split.CashUSDAmount.IsNegative() {
		return domain.ErrInvalidInput
	}
	sum := split.CashAmount.Add(split.TransferAmount).Add(split.CardAmount)
	if split.CashUSDAmount.IsPositive() {
		if !money.RateKnown(rate) {
			return domain.ErrRateUnavailable
		}
		sum = sum.Add(money.ToARS(split.CashUSDAmount, rate))
	}
	if !money.Reconciles(sum, totalARS) {
		return domain.ErrPaymentMismatch
	}
	return nil
}

// ComposeInTx valida el pago y persiste la venta con los repos de la transacción del caller.
// Con decrementStock=true descuenta cada producto distinto una sola vez (cantidades sumadas) a través del
// libro de stock; las validaciones ocurren antes de cualquier escritura.
func ComposeInTx(ctx context.Context, repos repository.Repos, ledger *inventory.Ledger, d Draft, decrementStock bool) (*Result, error) {
	if len(d.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range d.Items {
		if it.Quantity < 1 || it.Price.IsNegative() || !money.IsCurrency(it.Currency) {
			return nil, domain.ErrInvalidInput
		}
	}
	total, err := TotalARS(d.Items, d.Rate)
	if err != nil {
		return nil, err
	}
	if err := ValidatePayment(d.PaymentMethod, d.Split, total, d.Rate); err != nil {
		return nil, err
	}
	if d.Now.IsZero() {
		d.Now = time.Now()
	}
	if d.Source == "" {
		d.Source = entity.SaleSourcePOS
	}

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		Date:          d.Now,
		CustomerID:    d.CustomerID,
		Items:         d.Items,
		PaymentMethod: d.PaymentMethod,
		TotalAmount:   total,
		USDRate:       d.Rate,
		Store:         d.Store,
		Source:        d.Source,
		ReserveID:     d.ReserveID,
		CreatedBy:     d.UserID,
	}
	if d.PaymentMethod == entity.PaymentMultiple {
		cash, transfer, card, cashUSD := d.Split.CashAmount, d.Split.TransferAmount, d.Split.CardAmount, d.Split.CashUSDAmount
		sale.CashAmount = &cash
		sale.TransferAmount = &transfer
		sale.CardAmount = &card
		sale.CashUSDAmount = &cashUSD
	}

	res := &Result{Sale: sale}
	if decrementStock {
		for _, q := range mergeQuantities(d.Items) {
			sr, err := ledger.DecrementInTx(ctx, repos, inventory.StockChange{
				ProductID: q.productID,
				Quantity:  q.quantity,
				Type:      entity.MovementSale,
				Reference: sale.ID,
				UserID:    d.UserID,
				Now:       d.Now,
				Mirrored:  d.Source == entity.SaleSourceConsignment,
			})
			if err != nil {
				return nil, err
			}
			if sr.Deleted {
				res.Deleted = append(res.Deleted, sr.ProductID)
			}
		}
	}
	if err := repos.Sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	return res, nil
}

type productQty struct {
	productID string
	quantity  int
}

// mergeQuantities suma las cantidades de líneas repetidas, respetando el orden de aparición.
func mergeQuantities(items []entity.SaleItem) []productQty {
	idx := make(map[string]int, len(items))
	out := make([]productQty, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it.ProductID]; ok {
			out[i].quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, productQty{productID: it.ProductID, quantity: it.Quantity})
	}
	return out
}

// convert lleva un monto de una moneda a otra con la cotización dada.
func convert(amount decimal.Decimal, from, to string, rate decimal.Decimal) (decimal.Decimal, error) {
	if from == to || amount.IsZero() {
		return amount, nil
	}
	if !money.RateKnown(rate) {
		return decimal.Zero, domain.ErrRateUnavailable
	}
	if to == money.ARS {
		return money.ToARS(amount, rate), nil
	}
	return money.ToUSD(amount, rate), nil
}
