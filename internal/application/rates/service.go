// Package rates provee la cotización USD→ARS vigente: caché (Redis) → fila persistida → 0 (desconocida).
package rates

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
	"github.com/jhoicas/iMarket-api/internal/application/ports"
	"github.com/jhoicas/iMarket-api/internal/domain"
	"github.com/jhoicas/iMarket-api/internal/domain/repository"
	"github.com/jhoicas/iMarket-api/pkg/money"
)

var _ ports.RateSource = (*Service)(nil)

// Service cotización del dólar. cache y quoter son opcionales (nil).
type Service struct {
	repo   repository.RateRepository
	cache  ports.RateCache
	quoter ports.RateQuoter
	ttl    time.Duration
}

// NewService construye el servicio de cotización.
func NewService(repo repository.RateRepository, cache ports.RateCache, quoter ports.RateQuoter, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{repo: repo, cache: cache, quoter: quoter, ttl: ttl}
}

// Current cotización vigente; 0 si nunca se cargó. Un error de la caché no es fatal: se lee la fila.
func (s *Service) Current(ctx context.Context) (decimal.Decimal, error) {
	if s.cache != nil {
		rate, ok, err := s.cache.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("caché de cotización no disponible")
		} else if ok {
			return rate, nil
		}
	}
	rate, _, ok, err := s.repo.GetUSDRate(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, nil
	}
	s.cacheSet(ctx, rate)
	return rate, nil
}

// Get cotización con su fecha de actualización.
func (s *Service) Get(ctx context.Context) (*dto.RateResponse, error) {
	rate, updatedAt, ok, err := s.repo.GetUSDRate(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &dto.RateResponse{Rate: decimal.Zero}, nil
	}
	return &dto.RateResponse{Rate: rate, Known: money.RateKnown(rate), UpdatedAt: &updatedAt}, nil
}

// Set persiste una cotización manual (> 0) y refresca la caché.
func (s *Service) Set(ctx context.Context, rate decimal.Decimal) (*dto.RateResponse, error) {
	if !money.RateKnown(rate) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	if err := s.repo.SetUSDRate(ctx, rate, now); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, rate)
	return &dto.RateResponse{Rate: rate, Known: true, UpdatedAt: &now}, nil
}

// Refresh trae la cotización de venta de la API externa. Si falla se registra el error y se
// conserva el valor anterior (Stale=true); nunca se pisa con 0.
func (s *Service) Refresh(ctx context.Context) (*dto.RateResponse, error) {
	if s.quoter == nil {
		return nil, domain.ErrRateUnavailable
	}
	rate, err := s.quoter.SellRate(ctx)
	if err == nil && !money.RateKnown(rate) {
		err = domain.ErrRateUnavailable
	}
	if err != nil {
		log.Error().Err(err).Msg("no se pudo actualizar la cotización; se conserva la anterior")
		prev, getErr := s.Get(ctx)
		if getErr != nil {
			return nil, getErr
		}
		prev.Stale = true
		return prev, nil
	}
	out, err := s.Set(ctx, rate)
	if err != nil {
		return nil, err
	}
	log.Info().Str("rate", rate.String()).Msg("cotización actualizada")
	return out, nil
}

// RunRefresher refresca la cotización cada interval hasta que ctx se cancele.
func (s *Service) RunRefresher(ctx context.Context, interval time.Duration) {
	if s.quoter == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			_, _ = s.Refresh(reqCtx)
			cancel()
		}
	}
}

func (s *Service) cacheSet(ctx context.Context, rate decimal.Decimal) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, rate, s.ttl); err != nil {
		log.Warn().Err(err).Msg("no se pudo guardar la cotización en caché")
	}
}
