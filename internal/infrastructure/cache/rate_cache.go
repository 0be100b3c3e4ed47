// Package cache provides Redis-backed caching decorators.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/batchpay/backend/internal/domain/currency"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a Redis client and verifies the connection
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RateCache is a read-through cache in front of a currency.RateProvider.
// Exchange rates change at most daily, so a short TTL keeps the cache
// fresh without hammering the rate table on every allocation load.
type RateCache struct {
	inner  currency.RateProvider
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRateCache wraps a rate provider with Redis caching
func NewRateCache(inner currency.RateProvider, client *redis.Client, ttl time.Duration, logger *zap.Logger) *RateCache {
	return &RateCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RateCache) key(companyID uuid.UUID, ccy valueobject.Currency, at time.Time) string {
	return fmt.Sprintf("rate:%s:%s:%s", companyID, ccy, at.Format("2006-01-02"))
}

// RateAt returns the cached rate when present, falling back to the
// inner provider and populating the cache on miss. Cache failures are
// logged and degrade to the inner provider, never to an error.
func (c *RateCache) RateAt(ctx context.Context, companyID uuid.UUID, ccy valueobject.Currency, at time.Time) (decimal.Decimal, error) {
	key := c.key(companyID, ccy, at)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		rate, parseErr := decimal.NewFromString(cached)
		if parseErr == nil {
			return rate, nil
		}
		c.logger.Warn("Discarding malformed cached rate",
			zap.String("key", key), zap.Error(parseErr))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Rate cache read failed, falling back to provider",
			zap.String("key", key), zap.Error(err))
	}

	rate, err := c.inner.RateAt(ctx, companyID, ccy, at)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if setErr := c.client.Set(ctx, key, rate.String(), c.ttl).Err(); setErr != nil {
		c.logger.Warn("Rate cache write failed",
			zap.String("key", key), zap.Error(setErr))
	}

	return rate, nil
}
