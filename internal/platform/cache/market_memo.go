package cache

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/usecase"
	"portfolio_backend/internal/platform/metrics"
)

const (
	fmpMemoCache = "fmp_memo"

	// DefaultFoundTTL is how long a found profile is reused.
	DefaultFoundTTL = 10 * time.Minute
	// DefaultNotFoundTTL is how long an unknown symbol is remembered.
	DefaultNotFoundTTL = time.Minute
)

// MemoizedMarketLookup remembers market-data lookups in process memory.
// Provider errors are never cached.
type MemoizedMarketLookup struct {
	inner       usecase.MarketRepository
	store       *gocache.Cache
	notFoundTTL time.Duration
}

var _ usecase.MarketRepository = (*MemoizedMarketLookup)(nil)

// NewMemoizedMarketLookup wraps inner. Zero TTLs fall back to the defaults.
func NewMemoizedMarketLookup(inner usecase.MarketRepository, foundTTL, notFoundTTL time.Duration) *MemoizedMarketLookup {
	if foundTTL <= 0 {
		foundTTL = DefaultFoundTTL
	}
	if notFoundTTL <= 0 {
		notFoundTTL = DefaultNotFoundTTL
	}
	return &MemoizedMarketLookup{
		inner:       inner,
		store:       gocache.New(foundTTL, 2*foundTTL),
		notFoundTTL: notFoundTTL,
	}
}

// LookupStock returns a memoized result when one is live, otherwise asks inner.
// A nil entry records that the provider does not know the symbol.
func (m *MemoizedMarketLookup) LookupStock(ctx context.Context, symbol string) (*entity.Stock, error) {
	key := usecase.NormalizeSymbol(symbol)

	if v, ok := m.store.Get(key); ok {
		metrics.CacheLookupsTotal.WithLabelValues(fmpMemoCache, metrics.CacheResult(true)).Inc()
		s, _ := v.(*entity.Stock)
		if s == nil {
			return nil, usecase.ErrStockNotFound
		}
		cp := *s
		return &cp, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues(fmpMemoCache, metrics.CacheResult(false)).Inc()

	s, err := m.inner.LookupStock(ctx, symbol)
	switch {
	case errors.Is(err, usecase.ErrStockNotFound):
		m.store.Set(key, (*entity.Stock)(nil), m.notFoundTTL)
		return nil, err
	case err != nil:
		return nil, err
	}

	cp := *s
	m.store.Set(key, &cp, gocache.DefaultExpiration)
	return s, nil
}

// Flush drops every memoized result.
func (m *MemoizedMarketLookup) Flush() {
	m.store.Flush()
}
