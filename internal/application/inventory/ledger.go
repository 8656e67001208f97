package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/internal/domain/stock"
)

// StockChange describe una mutación de stock. Quantity siempre positiva; el método define el signo.
type StockChange struct {
	ProductID string
	Quantity  int
	Type      string // entity.Movement*
	Reference string
	UserID    string
	Now       time.Time
	// Mirrored indica que la mutación la origina el propio parlante JBL (venta o carga), que ya
	// actualizó sus contadores.
	Mirrored bool
}

// StockResult estado del producto después de la mutación. Product es nil si se eliminó.
type StockResult struct {
	ProductID string
	Stock     int
	Deleted   bool
	Product   *entity.Product
}

// Ledger libro de stock. Todas las operaciones reciben los repos de la transacción del caller
// y bloquean la fila del producto (GetForUpdate) antes de leer el stock.
type Ledger struct{}

// NewLedger construye el libro de stock.
func NewLedger() *Ledger {
	return &Ledger{}
}

// DecrementInTx descuenta Quantity. Falla con ErrInsufficientStock si el stock no alcanza (nunca queda
// negativo) y aplica la resolución de agotamiento: los celulares nuevos/usados en 0 se eliminan.
func (l *Ledger) DecrementInTx(ctx context.Context, repos repository.Repos, ch StockChange) (*StockResult, error) {
	p, err := l.lock(ctx, repos, ch)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.Stock < ch.Quantity {
		return nil, domain.ErrInsufficientStock
	}
	p.Stock = stock.ApplyStockDelta(p.Stock, -ch.Quantity)
	return l.persist(ctx, repos, p, -ch.Quantity, ch)
}

// HoldInTx retiene unidades para una seña: descuenta stock y marca el producto como reservado.
// No elimina el producto aunque llegue a 0, para poder devolver las unidades si se cancela.
func (l *Ledger) HoldInTx(ctx context.Context, repos repository.Repos, ch StockChange) (*StockResult, error) {
	p, err := l.lock(ctx, repos, ch)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.Stock < ch.Quantity {
		return nil, domain.ErrInsufficientStock
	}
	p.Stock = stock.ApplyStockDelta(p.Stock, -ch.Quantity)
	p.Reserved = true
	p.UpdatedAt = ch.Now
	if err := repos.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := l.record(ctx, repos, p, -ch.Quantity, ch); err != nil {
		return nil, err
	}
	return &StockResult{ProductID: p.ID, Stock: p.Stock, Product: p}, nil
}

// IncrementInTx suma Quantity. Si el producto ya no existe devuelve (nil, nil): el caller decide.
func (l *Ledger) IncrementInTx(ctx context.Context, repos repository.Repos, ch StockChange) (*StockResult, error) {
	p, err := l.lock(ctx, repos, ch)
	if err != nil || p == nil {
		return nil, err
	}
	p.Stock = stock.ApplyStockDelta(p.Stock, ch.Quantity)
	p.UpdatedAt = ch.Now
	if err := repos.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := l.record(ctx, repos, p, ch.Quantity, ch); err != nil {
		return nil, err
	}
	return &StockResult{ProductID: p.ID, Stock: p.Stock, Product: p}, nil
}

// AdjustInTx aplica un delta con signo limitado a 0 y resuelve el agotamiento.
func (l *Ledger) AdjustInTx(ctx context.Context, repos repository.Repos, ch StockChange, delta int) (*StockResult, error) {
	p, err := l.lock(ctx, repos, ch)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	before := p.Stock
	p.Stock = stock.ApplyStockDelta(p.Stock, delta)
	return l.persist(ctx, repos, p, p.Stock-before, ch)
}

// ReleaseReservedFlagInTx limpia la marca de reservado si ninguna otra seña activa retiene el producto,
// y resuelve el agotamiento cuando finalize es true (seña completada). Producto inexistente: (nil, nil).
func (l *Ledger) ReleaseReservedFlagInTx(ctx context.Context, repos repository.Repos, productID, reserveID string, finalize bool, now time.Time) (*StockResult, error) {
	p, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil || p == nil {
		return nil, err
	}
	others, err := repos.Reserves.CountActiveByProduct(ctx, productID, reserveID)
	if err != nil {
		return nil, err
	}
	p.Reserved = others > 0
	p.UpdatedAt = now
	if finalize && !p.Reserved && stock.ResolveDepletion(p) == stock.Delete {
		if err := repos.Products.Delete(ctx, p.ID); err != nil {
			return nil, err
		}
		return &StockResult{ProductID: p.ID, Deleted: true}, nil
	}
	if err := repos.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	return &StockResult{ProductID: p.ID, Stock: p.Stock, Product: p}, nil
}

func (l *Ledger) lock(ctx context.Context, repos repository.Repos, ch StockChange) (*entity.Product, error) {
	if ch.ProductID == "" || ch.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	return repos.Products.GetForUpdate(ctx, ch.ProductID)
}

// persist guarda o elimina el producto según ResolveDepletion y registra el movimiento.
func (l *Ledger) persist(ctx context.Context, repos repository.Repos, p *entity.Product, signedQty int, ch StockChange) (*StockResult, error) {
	if err := l.record(ctx, repos, p, signedQty, ch); err != nil {
		return nil, err
	}
	if stock.ResolveDepletion(p) == stock.Delete && !p.Reserved {
		if err := repos.Products.Delete(ctx, p.ID); err != nil {
			return nil, err
		}
		return &StockResult{ProductID: p.ID, Deleted: true}, nil
	}
	p.UpdatedAt = ch.Now
	if err := repos.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	return &StockResult{ProductID: p.ID, Stock: p.Stock, Product: p}, nil
}

func (l *Ledger) record(ctx context.Context, repos repository.Repos, p *entity.Product, signedQty int, ch StockChange) error {
	if err := repos.Movements.Create(ctx, &entity.StockMovement{
		ProductID:  p.ID,
		Type:       ch.Type,
		Quantity:   signedQty,
		StockAfter: p.Stock,
		Reference:  ch.Reference,
		Store:      p.Store,
		CreatedAt:  ch.Now,
		CreatedBy:  ch.UserID,
	}); err != nil {
		return err
	}
	if ch.Mirrored || p.Category != entity.CategoryJBL || signedQty == 0 {
		return nil
	}
	return l.syncMirror(ctx, repos, p.ID, signedQty, ch)
}

// syncMirror mantiene disponible = stock del espejo cuando el cambio entra por el inventario general.
// Las salidas por venta o seña cuentan como vendidas; las de ajuste o traslado bajan lo cargado.
// Una devolución de seña primero revierte vendidas.
func (l *Ledger) syncMirror(ctx context.Context, repos repository.Repos, productID string, signedQty int, ch StockChange) error {
	j, err := repos.Jbl.GetByLinkedProduct(ctx, productID)
	if err != nil || j == nil {
		return err
	}
	if signedQty < 0 {
		q := -signedQty
		j.AvailableQuantity -= q
		switch ch.Type {
		case entity.MovementSale, entity.MovementReserve, entity.MovementConsignment:
			j.SoldQuantity += q
		default:
			j.QuantityLoaded -= q
		}
	} else {
		j.AvailableQuantity += signedQty
		back := 0
		if ch.Type == entity.MovementRelease {
			back = min(signedQty, j.SoldQuantity)
		}
		j.SoldQuantity -= back
		j.QuantityLoaded += signedQty - back
	}
	j.UpdatedAt = ch.Now
	if !j.Balanced() {
		return domain.ErrConflict
	}
	return repos.Jbl.Update(ctx, j)
}
