package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/domain/query"
)

// StockRepository は銘柄エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type StockRepository interface {
	// List はクエリ条件に一致する銘柄を、コメントと投稿者付きで返します。
	List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error)
	// FindByID は銘柄をコメントと投稿者付きで返します。存在しない場合 ErrStockNotFound。
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)
	// FindBySymbol は大文字小文字を区別せずに銘柄を返します（コメントは含みません）。
	FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	// Create は銘柄を追加します。シンボル重複時は ErrSymbolAlreadyExists。
	Create(ctx context.Context, s *entity.Stock) error
	// Update は銘柄の業務フィールドを上書きします。
	Update(ctx context.Context, s *entity.Stock) error
	// Delete は銘柄と、それに紐づくコメント・ポートフォリオ行を1トランザクションで削除します。
	Delete(ctx context.Context, id uint) (*entity.Stock, error)
	// UpsertBySymbol はシンボルが一致する銘柄を上書き、なければ追加します。
	UpsertBySymbol(ctx context.Context, s *entity.Stock) error
}

// StockUsecase は銘柄のCRUDと一覧取得を提供します。
type StockUsecase struct {
	repo StockRepository
}

// NewStockUsecase はStockUsecaseの新しいインスタンスを生成します。
func NewStockUsecase(repo StockRepository) *StockUsecase {
	return &StockUsecase{repo: repo}
}

// NormalizeSymbol はシンボルの前後空白を除去し大文字化します。
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// List はフィルタ・ソート・ページングを適用した銘柄一覧を返します。
func (u *StockUsecase) List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return u.repo.List(ctx, q)
}

// Get はIDで銘柄を取得します。
func (u *StockUsecase) Get(ctx context.Context, id uint) (*entity.Stock, error) {
	return u.repo.FindByID(ctx, id)
}

// Create は新しい銘柄を登録します。シンボルは大文字に正規化されます。
func (u *StockUsecase) Create(ctx context.Context, s *entity.Stock) error {
	s.ID = 0
	s.Symbol = NormalizeSymbol(s.Symbol)
	if err := u.repo.Create(ctx, s); err != nil {
		return err
	}
	log.Info().Uint("stock_id", s.ID).Str("symbol", s.Symbol).Msg("stock created")
	return nil
}

// Update は既存銘柄の6つの業務フィールドを上書きします。
func (u *StockUsecase) Update(ctx context.Context, id uint, in entity.Stock) (*entity.Stock, error) {
	existing, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Symbol = NormalizeSymbol(in.Symbol)
	existing.CompanyName = in.CompanyName
	existing.Purchase = in.Purchase
	existing.LastDiv = in.LastDiv
	existing.Industry = in.Industry
	existing.MarketCap = in.MarketCap

	if err := u.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update stock %d: %w", id, err)
	}
	return existing, nil
}

// Delete は銘柄を削除し、削除前の状態を返します。
func (u *StockUsecase) Delete(ctx context.Context, id uint) (*entity.Stock, error) {
	s, err := u.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("stock_id", id).Str("symbol", s.Symbol).Msg("stock deleted")
	return s, nil
}
