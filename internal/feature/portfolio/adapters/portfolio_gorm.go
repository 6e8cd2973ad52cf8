// Package adapters はportfolioフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio_backend/internal/feature/portfolio/domain/entity"
	"portfolio_backend/internal/feature/portfolio/usecase"
	stockentity "portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/platform/db"
)

// portfolioGorm はPortfolioRepositoryインターフェースのGORM実装です。
type portfolioGorm struct {
	db *gorm.DB
}

var _ usecase.PortfolioRepository = (*portfolioGorm)(nil)

// NewPortfolioRepository は指定されたDB接続でportfolioGormリポジトリの新しいインスタンスを生成します。
func NewPortfolioRepository(db *gorm.DB) *portfolioGorm {
	return &portfolioGorm{db: db}
}

// ListStocks は保有行の追加順に銘柄を返します。コメントはID順で投稿者付きです。
func (r *portfolioGorm) ListStocks(ctx context.Context, userID uint) ([]stockentity.Stock, error) {
	var holdings []entity.Portfolio
	if err := r.db.WithContext(ctx).
		Where("app_user_id = ?", userID).
		Order("id ASC").
		Preload("Stock").
		Preload("Stock.Comments", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Stock.Comments.AppUser").
		Find(&holdings).Error; err != nil {
		return nil, err
	}

	stocks := make([]stockentity.Stock, 0, len(holdings))
	for _, h := range holdings {
		stocks = append(stocks, h.Stock)
	}
	return stocks, nil
}

// HoldingsBySymbol は大文字小文字を区別せずシンボルが一致する保有行を返します。
func (r *portfolioGorm) HoldingsBySymbol(ctx context.Context, userID uint, symbol string) ([]entity.Portfolio, error) {
	var holdings []entity.Portfolio
	if err := r.db.WithContext(ctx).
		Joins("JOIN stocks ON stocks.id = portfolios.stock_id").
		Where("portfolios.app_user_id = ? AND UPPER(stocks.symbol) = UPPER(?)", userID, symbol).
		Order("portfolios.id ASC").
		Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

// Create は保有行を追加します。一意インデックス違反は usecase.ErrAlreadyInPortfolio です。
func (r *portfolioGorm) Create(ctx context.Context, p *entity.Portfolio) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrAlreadyInPortfolio
		}
		return err
	}
	return nil
}

// Delete は保有行を削除します。
func (r *portfolioGorm) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Portfolio{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotInPortfolio
	}
	return nil
}
