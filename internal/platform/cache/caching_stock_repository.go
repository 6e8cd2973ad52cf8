// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/domain/query"
	"portfolio_backend/internal/feature/stocks/usecase"
	"portfolio_backend/internal/platform/metrics"
)

const redisStockCache = "redis_stock"

// CachingStockRepository decorates a StockRepository with Redis caching of
// symbol lookups. Only found stocks are cached, without their comments.
// Every successful write invalidates the affected keys.
type CachingStockRepository struct {
	inner     usecase.StockRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.StockRepository = (*CachingStockRepository)(nil)

// NewCachingStockRepository decorates a StockRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "stocks".
func NewCachingStockRepository(rdb *redis.Client, ttl time.Duration, inner usecase.StockRepository, namespace string) *CachingStockRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "stocks"
	}
	return &CachingStockRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List is not cached; paging and filter combinations make poor keys.
func (c *CachingStockRepository) List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error) {
	return c.inner.List(ctx, q)
}

// FindByID is not cached because its result carries comments.
func (c *CachingStockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	return c.inner.FindByID(ctx, id)
}

// FindBySymbol checks the cache first, then falls back to the inner repository.
func (c *CachingStockRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindBySymbol(ctx, symbol)
	}

	key := c.cacheKey(symbol)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Stock
		if err := json.Unmarshal(b, &out); err == nil {
			metrics.CacheLookupsTotal.WithLabelValues(redisStockCache, metrics.CacheResult(true)).Inc()
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}
	metrics.CacheLookupsTotal.WithLabelValues(redisStockCache, metrics.CacheResult(false)).Inc()

	// 2) Fallback to database
	out, err := c.inner.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// Create adds the stock. A new symbol has no cached entry, so nothing is invalidated.
func (c *CachingStockRepository) Create(ctx context.Context, s *entity.Stock) error {
	return c.inner.Create(ctx, s)
}

// Update overwrites the stock and drops every cached symbol, since the
// previous symbol is not known here.
func (c *CachingStockRepository) Update(ctx context.Context, s *entity.Stock) error {
	if err := c.inner.Update(ctx, s); err != nil {
		return err
	}
	c.invalidateAll(ctx)
	return nil
}

// Delete removes the stock and invalidates its cached symbol.
func (c *CachingStockRepository) Delete(ctx context.Context, id uint) (*entity.Stock, error) {
	s, err := c.inner.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, s.Symbol)
	return s, nil
}

// UpsertBySymbol writes through and invalidates the symbol's entry.
func (c *CachingStockRepository) UpsertBySymbol(ctx context.Context, s *entity.Stock) error {
	if err := c.inner.UpsertBySymbol(ctx, s); err != nil {
		return err
	}
	c.invalidate(ctx, s.Symbol)
	return nil
}

func (c *CachingStockRepository) invalidate(ctx context.Context, symbol string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.cacheKey(symbol)).Err(); err != nil {
		// Best effort: the entry expires after ttl anyway
		log.Warn().Err(err).Str("symbol", symbol).Msg("failed to invalidate stock cache")
	}
}

func (c *CachingStockRepository) invalidateAll(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, c.namespace+":*"); err != nil {
		log.Warn().Err(err).Str("namespace", c.namespace).Msg("failed to invalidate stock cache")
	}
}

// cacheKey generates the key for a symbol. Lookups are case-insensitive,
// so the symbol is normalized first.
func (c *CachingStockRepository) cacheKey(symbol string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(usecase.NormalizeSymbol(symbol)))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingStockRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
