package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"portfolio_backend/internal/feature/portfolio/domain/entity"
	stockentity "portfolio_backend/internal/feature/stocks/domain/entity"
	stockusecase "portfolio_backend/internal/feature/stocks/usecase"
	"portfolio_backend/internal/platform/metrics"
)

// PortfolioRepository はポートフォリオ行の永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type PortfolioRepository interface {
	// ListStocks はユーザーの保有銘柄を、コメントと投稿者付きで返します。
	ListStocks(ctx context.Context, userID uint) ([]stockentity.Stock, error)
	// HoldingsBySymbol はシンボルが大文字小文字を区別せず一致する保有行を返します。
	HoldingsBySymbol(ctx context.Context, userID uint, symbol string) ([]entity.Portfolio, error)
	// Create は保有行を追加します。(user, stock) が重複する場合 ErrAlreadyInPortfolio。
	Create(ctx context.Context, p *entity.Portfolio) error
	// Delete は保有行を削除します。
	Delete(ctx context.Context, id uint) error
}

// StockStore は銘柄の検索と登録を抽象化します。
// 通常はキャッシュ付きの stocks リポジトリが渡されます。
type StockStore interface {
	FindBySymbol(ctx context.Context, symbol string) (*stockentity.Stock, error)
	Create(ctx context.Context, s *stockentity.Stock) error
}

// MarketLookup は外部の市場データから銘柄を検索します。
// 見つからない場合は stocks の ErrStockNotFound を返します。
type MarketLookup interface {
	LookupStock(ctx context.Context, symbol string) (*stockentity.Stock, error)
}

// PortfolioUsecase はユーザーごとの保有銘柄を管理します。
type PortfolioUsecase struct {
	repo   PortfolioRepository
	stocks StockStore
	market MarketLookup
}

// NewPortfolioUsecase はPortfolioUsecaseの新しいインスタンスを生成します。
// market が nil の場合、未登録シンボルは外部検索せずに ErrStockNotFound となります。
func NewPortfolioUsecase(repo PortfolioRepository, stocks StockStore, market MarketLookup) *PortfolioUsecase {
	return &PortfolioUsecase{
		repo:   repo,
		stocks: stocks,
		market: market,
	}
}

// List はユーザーの保有銘柄を返します。
func (u *PortfolioUsecase) List(ctx context.Context, userID uint) ([]stockentity.Stock, error) {
	return u.repo.ListStocks(ctx, userID)
}

// Add はシンボルで銘柄を解決し、ユーザーのポートフォリオに追加します。
func (u *PortfolioUsecase) Add(ctx context.Context, userID uint, symbol string) (*stockentity.Stock, error) {
	symbol = stockusecase.NormalizeSymbol(symbol)

	stock, err := u.resolveStock(ctx, symbol)
	if err != nil {
		return nil, err
	}

	held, err := u.repo.HoldingsBySymbol(ctx, userID, stock.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings: %w", err)
	}
	if len(held) > 0 {
		return nil, ErrAlreadyInPortfolio
	}

	// 事前確認をすり抜けた同時追加は一意インデックスで ErrAlreadyInPortfolio になります
	if err := u.repo.Create(ctx, &entity.Portfolio{AppUserID: userID, StockID: stock.ID}); err != nil {
		return nil, err
	}

	metrics.PortfolioChangesTotal.WithLabelValues("add").Inc()
	log.Info().Uint("user_id", userID).Str("symbol", stock.Symbol).Msg("stock added to portfolio")
	return stock, nil
}

// Remove はシンボルに一致する保有行を1件削除します。
// 一致が0件なら ErrNotInPortfolio、2件以上なら ErrDuplicateHoldings を返し何も削除しません。
func (u *PortfolioUsecase) Remove(ctx context.Context, userID uint, symbol string) error {
	symbol = stockusecase.NormalizeSymbol(symbol)

	held, err := u.repo.HoldingsBySymbol(ctx, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to read holdings: %w", err)
	}

	switch len(held) {
	case 0:
		return ErrNotInPortfolio
	case 1:
	default:
		log.Error().Uint("user_id", userID).Str("symbol", symbol).Int("rows", len(held)).
			Msg("duplicate portfolio rows found; manual cleanup required")
		return ErrDuplicateHoldings
	}

	if err := u.repo.Delete(ctx, held[0].ID); err != nil {
		return fmt.Errorf("failed to remove holding %d: %w", held[0].ID, err)
	}

	metrics.PortfolioChangesTotal.WithLabelValues("remove").Inc()
	log.Info().Uint("user_id", userID).Str("symbol", symbol).Msg("stock removed from portfolio")
	return nil
}

// resolveStock は保存済みの銘柄を返します。未登録で市場データが使える場合は取得して保存します。
func (u *PortfolioUsecase) resolveStock(ctx context.Context, symbol string) (*stockentity.Stock, error) {
	stock, err := u.stocks.FindBySymbol(ctx, symbol)
	switch {
	case err == nil:
		return stock, nil
	case !errors.Is(err, stockusecase.ErrStockNotFound):
		return nil, fmt.Errorf("failed to find stock %s: %w", symbol, err)
	case u.market == nil:
		return nil, ErrStockNotFound
	}

	found, err := u.market.LookupStock(ctx, symbol)
	if err != nil {
		if errors.Is(err, stockusecase.ErrStockNotFound) {
			return nil, ErrStockNotFound
		}
		log.Warn().Err(err).Str("symbol", symbol).Msg("market lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrMarketUnavailable, err)
	}

	found.ID = 0
	found.Symbol = stockusecase.NormalizeSymbol(found.Symbol)
	if err := u.stocks.Create(ctx, found); err != nil {
		if errors.Is(err, stockusecase.ErrSymbolAlreadyExists) {
			// 同時リクエストが先に登録した
			return u.stocks.FindBySymbol(ctx, found.Symbol)
		}
		return nil, fmt.Errorf("failed to store stock %s: %w", symbol, err)
	}
	log.Info().Str("symbol", found.Symbol).Uint("stock_id", found.ID).Msg("stock imported from market data")
	return found, nil
}
