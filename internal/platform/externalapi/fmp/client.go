package fmp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/usecase"
	"portfolio_backend/internal/platform/externalapi/fmp/dto"
	"portfolio_backend/internal/platform/metrics"
	"portfolio_backend/internal/shared/ratelimiter"
)

// FMPMarket はFinancial Modeling Prepから銘柄プロフィールを取得するMarketRepository実装です。
type FMPMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
}

// FMPMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*FMPMarket)(nil)

// NewFMPMarket は指定された設定とHTTPクライアントでFMPMarketの新しいインスタンスを生成します。
// リクエストは cfg.RateLimit 回/分に制限されます。
func NewFMPMarket(cfg Config, client *http.Client) *FMPMarket {
	return &FMPMarket{
		cfg:     cfg,
		client:  client,
		limiter: ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute),
	}
}

// LookupStock はシンボルのプロフィールを取得し、銘柄エンティティに変換します。
// 空配列の場合は usecase.ErrStockNotFound を返します。
func (f *FMPMarket) LookupStock(ctx context.Context, symbol string) (*entity.Stock, error) {
	s, err := f.lookup(ctx, symbol)
	switch {
	case err == nil:
		metrics.MarketLookupsTotal.WithLabelValues("found").Inc()
	case errors.Is(err, usecase.ErrStockNotFound):
		metrics.MarketLookupsTotal.WithLabelValues("not_found").Inc()
	default:
		metrics.MarketLookupsTotal.WithLabelValues("error").Inc()
	}
	return s, err
}

func (f *FMPMarket) lookup(ctx context.Context, symbol string) (*entity.Stock, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, usecase.ErrStockNotFound
	}

	// レート制限を待機
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("apikey", f.cfg.APIKey)

	// URLを生成
	u := fmt.Sprintf("%s/api/v3/profile/%s?%s",
		strings.TrimRight(f.cfg.BaseURL, "/"), url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("fmp http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.ProfileResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("fmp decode: %w", err)
	}
	if len(body) == 0 {
		return nil, usecase.ErrStockNotFound
	}

	p := body[0]
	return &entity.Stock{
		Symbol:      p.Symbol,
		CompanyName: p.CompanyName,
		Purchase:    p.Price,
		LastDiv:     p.LastDiv,
		Industry:    p.Industry,
		MarketCap:   int64(p.MktCap),
	}, nil
}
