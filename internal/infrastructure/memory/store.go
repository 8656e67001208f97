// Package memory implementa los repositorios en memoria. Se usa en tests y con STORE_DRIVER=memory
// para desarrollo local sin PostgreSQL.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/application/ports"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store guarda todas las colecciones. Las transacciones se serializan con txMu y se revierten
// restaurando una copia de los mapas.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	products     map[string]entity.Product
	movements    []entity.StockMovement
	sales        map[string]entity.Sale
	saleOrder    []string
	reserves     map[string]entity.Reserve
	reserveOrder []string
	closures     []entity.Closure
	withdrawals  []entity.CashWithdrawal
	providers    map[string]entity.Provider
	providerTxs  []entity.ProviderTransaction
	jbl          map[string]entity.JblProduct
	jblOrder     []string

	usdRate   decimal.Decimal
	rateAt    time.Time
	rateIsSet bool
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]entity.Product),
		sales:     make(map[string]entity.Sale),
		reserves:  make(map[string]entity.Reserve),
		providers: make(map[string]entity.Provider),
		jbl:       make(map[string]entity.JblProduct),
	}
}

// Repos devuelve los repositorios sin transacción. Cada escritura toma txMu, así que queda ordenada
// respecto de las transacciones y un rollback nunca la pisa.
func (s *Store) Repos() repository.Repos {
	return s.repos(false)
}

func (s *Store) repos(tx bool) repository.Repos {
	return repository.Repos{
		Products:    &ProductRepo{s: s, tx: tx},
		Movements:   &MovementRepo{s: s, tx: tx},
		Sales:       &SaleRepo{s: s, tx: tx},
		Reserves:    &ReserveRepo{s: s, tx: tx},
		Closures:    &ClosureRepo{s: s, tx: tx},
		Withdrawals: &WithdrawalRepo{s: s, tx: tx},
		Providers:   &ProviderRepo{s: s, tx: tx},
		Jbl:         &JblRepo{s: s, tx: tx},
		Rates:       &RateRepo{s: s, tx: tx},
	}
}

// autoTx serializa una escritura suelta con las transacciones en curso. Dentro de Run el lock ya
// está tomado.
func (s *Store) autoTx(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

type snapshot struct {
	products     map[string]entity.Product
	movements    []entity.StockMovement
	sales        map[string]entity.Sale
	saleOrder    []string
	reserves     map[string]entity.Reserve
	reserveOrder []string
	closures     []entity.Closure
	withdrawals  []entity.CashWithdrawal
	providers    map[string]entity.Provider
	providerTxs  []entity.ProviderTransaction
	jbl          map[string]entity.JblProduct
	jblOrder     []string
	usdRate      decimal.Decimal
	rateAt       time.Time
	rateIsSet    bool
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		products:     maps.Clone(s.products),
		movements:    append([]entity.StockMovement(nil), s.movements...),
		sales:        maps.Clone(s.sales),
		saleOrder:    append([]string(nil), s.saleOrder...),
		reserves:     maps.Clone(s.reserves),
		reserveOrder: append([]string(nil), s.reserveOrder...),
		closures:     append([]entity.Closure(nil), s.closures...),
		withdrawals:  append([]entity.CashWithdrawal(nil), s.withdrawals...),
		providers:    maps.Clone(s.providers),
		providerTxs:  append([]entity.ProviderTransaction(nil), s.providerTxs...),
		jbl:          maps.Clone(s.jbl),
		jblOrder:     append([]string(nil), s.jblOrder...),
		usdRate:      s.usdRate,
		rateAt:       s.rateAt,
		rateIsSet:    s.rateIsSet,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.movements = snap.movements
	s.sales = snap.sales
	s.saleOrder = snap.saleOrder
	s.reserves = snap.reserves
	s.reserveOrder = snap.reserveOrder
	s.closures = snap.closures
	s.withdrawals = snap.withdrawals
	s.providers = snap.providers
	s.providerTxs = snap.providerTxs
	s.jbl = snap.jbl
	s.jblOrder = snap.jblOrder
	s.usdRate = snap.usdRate
	s.rateAt = snap.rateAt
	s.rateIsSet = snap.rateIsSet
}

// Run ejecuta fn de forma serializada; si fn falla se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := s.snapshot()
	if err := fn(s.repos(true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
