package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.ReserveRepository       = (*ReserveRepo)(nil)
	_ repository.ClosureRepository       = (*ClosureRepo)(nil)
	_ repository.WithdrawalRepository    = (*WithdrawalRepo)(nil)
	_ repository.ProviderRepository      = (*ProviderRepo)(nil)
	_ repository.JblRepository           = (*JblRepo)(nil)
	_ repository.RateRepository          = (*RateRepo)(nil)
)

// ── Productos ────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct {
	s  *Store
	tx bool
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if !productMatches(p, f) {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *ProductRepo) Count(_ context.Context, f repository.ProductFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.products {
		if productMatches(p, f) {
			n++
		}
	}
	return n, nil
}

func productMatches(p entity.Product, f repository.ProductFilter) bool {
	return (f.Store == "" || p.Store == f.Store) &&
		(f.Category == "" || p.Category == f.Category) &&
		(!f.InStock || p.Stock > 0)
}

// ── Movimientos de stock ─────────────────────────────────────────────────────

// MovementRepo auditoría de stock en memoria.
type MovementRepo struct {
	s  *Store
	tx bool
}

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *MovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.ProductID == productID {
			list = append(list, &m)
		}
	}
	return page(list, limit, offset), nil
}

// ── Ventas ───────────────────────────────────────────────────────────────────

// SaleRepo ventas en memoria.
type SaleRepo struct {
	s  *Store
	tx bool
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if _, ok := r.s.sales[sale.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.sales[sale.ID] = cloneSale(*sale)
	r.s.saleOrder = append(r.s.saleOrder, sale.ID)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	c := cloneSale(sale)
	return &c, nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Sale
	for i := len(r.s.saleOrder) - 1; i >= 0; i-- {
		sale := r.s.sales[r.s.saleOrder[i]]
		if !saleMatches(sale, f) {
			continue
		}
		c := cloneSale(sale)
		list = append(list, &c)
	}
	return page(list, f.Limit, f.Offset), nil
}

func (r *SaleRepo) Count(_ context.Context, f repository.SaleFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, id := range r.s.saleOrder {
		if saleMatches(r.s.sales[id], f) {
			n++
		}
	}
	return n, nil
}

// saleMatches una venta sin fecha solo entra si el filtro no acota fechas.
func saleMatches(sale entity.Sale, f repository.SaleFilter) bool {
	if f.Store != "" && sale.Store != f.Store {
		return false
	}
	if sale.Date.IsZero() {
		return f.From == nil && f.To == nil
	}
	if f.From != nil && sale.Date.Before(*f.From) {
		return false
	}
	return f.To == nil || !sale.Date.After(*f.To)
}

func (r *SaleRepo) ListOpenPeriod(_ context.Context, since time.Time) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Sale
	for _, id := range r.s.saleOrder {
		sale := r.s.sales[id]
		if sale.Date.IsZero() || sale.Date.After(since) {
			c := cloneSale(sale)
			list = append(list, &c)
		}
	}
	return list, nil
}

// ── Señas ────────────────────────────────────────────────────────────────────

// ReserveRepo señas en memoria.
type ReserveRepo struct {
	s  *Store
	tx bool
}

func (r *ReserveRepo) Create(_ context.Context, res *entity.Reserve) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if _, ok := r.s.reserves[res.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.reserves[res.ID] = cloneReserve(*res)
	r.s.reserveOrder = append(r.s.reserveOrder, res.ID)
	return nil
}

func (r *ReserveRepo) GetByID(_ context.Context, id string) (*entity.Reserve, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res, ok := r.s.reserves[id]
	if !ok {
		return nil, nil
	}
	c := cloneReserve(res)
	return &c, nil
}

func (r *ReserveRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reserve, error) {
	return r.GetByID(ctx, id)
}

func (r *ReserveRepo) Update(_ context.Context, res *entity.Reserve) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reserves[res.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.reserves[res.ID] = cloneReserve(*res)
	return nil
}

func (r *ReserveRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Reserve, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Reserve
	for i := len(r.s.reserveOrder) - 1; i >= 0; i-- {
		res := r.s.reserves[r.s.reserveOrder[i]]
		if status != "" && res.Status != status {
			continue
		}
		c := cloneReserve(res)
		list = append(list, &c)
	}
	return page(list, limit, offset), nil
}

func (r *ReserveRepo) CountActiveByProduct(_ context.Context, productID, excludeID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for id, res := range r.s.reserves {
		if id != excludeID && res.ProductID == productID && res.Status == entity.ReserveStatusReserved {
			n++
		}
	}
	return n, nil
}

// ── Cierres y retiros ────────────────────────────────────────────────────────

// ClosureRepo cierres en memoria.
type ClosureRepo struct {
	s  *Store
	tx bool
}

func (r *ClosureRepo) Create(_ context.Context, c *entity.Closure) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.s.closures = append(r.s.closures, cloneClosure(*c))
	return nil
}

// LockPeriod no hace nada: Run ya serializa las transacciones.
func (r *ClosureRepo) LockPeriod(context.Context) error { return nil }

func (r *ClosureRepo) Last(_ context.Context) (*entity.Closure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var last *entity.Closure
	for _, c := range r.s.closures {
		if last == nil || c.Timestamp.After(last.Timestamp) {
			c := cloneClosure(c)
			last = &c
		}
	}
	return last, nil
}

func (r *ClosureRepo) List(_ context.Context, limit, offset int) ([]*entity.Closure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Closure, 0, len(r.s.closures))
	for _, c := range r.s.closures {
		c := cloneClosure(c)
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	return page(list, limit, offset), nil
}

// WithdrawalRepo retiros en memoria.
type WithdrawalRepo struct {
	s  *Store
	tx bool
}

func (r *WithdrawalRepo) Create(_ context.Context, w *entity.CashWithdrawal) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	r.s.withdrawals = append(r.s.withdrawals, *w)
	return nil
}

func (r *WithdrawalRepo) ListSince(_ context.Context, since time.Time) ([]*entity.CashWithdrawal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.CashWithdrawal
	for _, w := range r.s.withdrawals {
		if w.Timestamp.After(since) {
			w := w
			list = append(list, &w)
		}
	}
	return list, nil
}

// ── Proveedores ──────────────────────────────────────────────────────────────

// ProviderRepo proveedores en memoria.
type ProviderRepo struct {
	s  *Store
	tx bool
}

func (r *ProviderRepo) Create(_ context.Context, p *entity.Provider) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, ok := r.s.providers[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.providers[p.ID] = *p
	return nil
}

func (r *ProviderRepo) GetByID(_ context.Context, id string) (*entity.Provider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.providers[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProviderRepo) List(_ context.Context) ([]*entity.Provider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Provider, 0, len(r.s.providers))
	for _, p := range r.s.providers {
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *ProviderRepo) CreateTransaction(_ context.Context, tx *entity.ProviderTransaction) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	r.s.providerTxs = append(r.s.providerTxs, *tx)
	return nil
}

func (r *ProviderRepo) ListTransactions(_ context.Context, providerID string) ([]*entity.ProviderTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.ProviderTransaction
	for _, tx := range r.s.providerTxs {
		if tx.ProviderID == providerID {
			tx := tx
			list = append(list, &tx)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// ── JBL ──────────────────────────────────────────────────────────────────────

// JblRepo parlantes JBL en memoria.
type JblRepo struct {
	s  *Store
	tx bool
}

func (r *JblRepo) Create(_ context.Context, p *entity.JblProduct) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, ok := r.s.jbl[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.jbl[p.ID] = *p
	r.s.jblOrder = append(r.s.jblOrder, p.ID)
	return nil
}

func (r *JblRepo) GetByID(_ context.Context, id string) (*entity.JblProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.jbl[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *JblRepo) GetForUpdate(ctx context.Context, id string) (*entity.JblProduct, error) {
	return r.GetByID(ctx, id)
}

func (r *JblRepo) GetByLinkedProduct(_ context.Context, productID string) (*entity.JblProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range r.s.jblOrder {
		if p := r.s.jbl[id]; p.LinkedProductID == productID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *JblRepo) Update(_ context.Context, p *entity.JblProduct) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jbl[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.jbl[p.ID] = *p
	return nil
}

func (r *JblRepo) List(_ context.Context) ([]*entity.JblProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.JblProduct, 0, len(r.s.jblOrder))
	for _, id := range r.s.jblOrder {
		p := r.s.jbl[id]
		list = append(list, &p)
	}
	return list, nil
}

// ── Cotización ───────────────────────────────────────────────────────────────

// RateRepo cotización en memoria.
type RateRepo struct {
	s  *Store
	tx bool
}

func (r *RateRepo) GetUSDRate(_ context.Context) (decimal.Decimal, time.Time, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.usdRate, r.s.rateAt, r.s.rateIsSet, nil
}

func (r *RateRepo) SetUSDRate(_ context.Context, rate decimal.Decimal, updatedAt time.Time) error {
	defer r.s.autoTx(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.usdRate = rate
	r.s.rateAt = updatedAt
	r.s.rateIsSet = true
	return nil
}
