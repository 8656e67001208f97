// Package cache guarda la cotización vigente en Redis para no leer la fila en cada venta.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/application/ports"
)

var _ ports.RateCache = (*RateCache)(nil)

const usdRateKey = "imarket:usd_rate"

// NewClient conecta a Redis desde una URL (redis://:password@host:6379/0) y verifica la conexión.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping Redis: %w", err)
	}
	log.Info().Str("addr", opt.Addr).Int("db", opt.DB).Msg("conexión a Redis establecida")
	return client, nil
}

// RateCache implementa ports.RateCache sobre una clave con TTL.
type RateCache struct {
	client *redis.Client
}

// NewRateCache construye la caché.
func NewRateCache(client *redis.Client) *RateCache {
	return &RateCache{client: client}
}

// Get un miss (redis.Nil) devuelve ok=false sin error.
func (c *RateCache) Get(ctx context.Context) (decimal.Decimal, bool, error) {
	raw, err := c.client.Get(ctx, usdRateKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("redis get: %w", err)
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("cotización en caché inválida %q: %w", raw, err)
	}
	return rate, true, nil
}

func (c *RateCache) Set(ctx context.Context, rate decimal.Decimal, ttl time.Duration) error {
	if err := c.client.Set(ctx, usdRateKey, rate.String(), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
