package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"portfolio_backend/internal/feature/stocks/domain/entity"
)

// MarketRepository は外部の市場データAPIから銘柄情報を取得するインターフェースです。
// 見つからない場合は ErrStockNotFound を返します。
type MarketRepository interface {
	LookupStock(ctx context.Context, symbol string) (*entity.Stock, error)
}

// ImportResult は1銘柄分のインポート結果です。
type ImportResult struct {
	Symbol string
	Stock  *entity.Stock
	Err    error
}

// ImportUsecase は外部APIから銘柄情報を取得し、データベースに反映します。
type ImportUsecase struct {
	market MarketRepository
	stocks StockRepository
}

// NewImportUsecase は新しい ImportUsecase を作成します。market が nil の場合、ImportAll は ErrMarketDataUnavailable を返します。
func NewImportUsecase(market MarketRepository, stocks StockRepository) *ImportUsecase {
	return &ImportUsecase{market: market, stocks: stocks}
}

// importOne は1銘柄を取得し、シンボル単位で追加または上書きします。
func (iu *ImportUsecase) importOne(ctx context.Context, symbol string) (*entity.Stock, error) {
	s, err := iu.market.LookupStock(ctx, symbol)
	if err != nil {
		return nil, err
	}
	s.ID = 0
	s.Symbol = NormalizeSymbol(s.Symbol)
	if err := iu.stocks.UpsertBySymbol(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ImportAll は指定された全銘柄を取得して永続化します。
// 1つの銘柄でエラーが発生しても処理を止めずにログに出力し、次の銘柄へ進みます。
// レート制限は市場データクライアント側で適用されます。
func (iu *ImportUsecase) ImportAll(ctx context.Context, symbols []string) ([]ImportResult, error) {
	if iu.market == nil {
		return nil, ErrMarketDataUnavailable
	}

	results := make([]ImportResult, 0, len(symbols))
	for _, raw := range symbols {
		symbol := NormalizeSymbol(raw)
		if symbol == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		s, err := iu.importOne(ctx, symbol)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return results, err
			}
			log.Error().Err(err).Str("symbol", symbol).Msg("failed to import stock")
			results = append(results, ImportResult{Symbol: symbol, Err: err})
			continue
		}
		log.Info().Str("symbol", symbol).Uint("stock_id", s.ID).Msg("stock imported")
		results = append(results, ImportResult{Symbol: symbol, Stock: s})
	}
	return results, nil
}
