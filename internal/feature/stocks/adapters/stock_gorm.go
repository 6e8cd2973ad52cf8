// Package adapters はstocksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	commententity "portfolio_backend/internal/feature/comments/domain/entity"
	portfolioentity "portfolio_backend/internal/feature/portfolio/domain/entity"
	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/domain/query"
	"portfolio_backend/internal/feature/stocks/usecase"
	"portfolio_backend/internal/platform/db"
)

// stockGorm はStockRepositoryインターフェースのGORM実装です。
type stockGorm struct {
	db *gorm.DB
}

var _ usecase.StockRepository = (*stockGorm)(nil)

// NewStockRepository は指定されたDB接続でstockGormリポジトリの新しいインスタンスを生成します。
func NewStockRepository(db *gorm.DB) *stockGorm {
	return &stockGorm{db: db}
}

// containsExpr は大文字小文字を区別する部分一致条件を返します。
// LIKE はSQLiteでは大文字小文字を区別しないため、位置関数を使います。
func containsExpr(tx *gorm.DB, column string) string {
	if tx.Dialector.Name() == "postgres" {
		return fmt.Sprintf("strpos(%s, ?) > 0", column)
	}
	return fmt.Sprintf("instr(%s, ?) > 0", column)
}

// withComments はコメントをID順に、投稿者付きでプリロードします。
func withComments(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Comments", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Comments.AppUser")
}

// List は query.ApplyStockQuery と同じ意味のSQLを組み立てて実行します。
// 絞り込み → 並び替え（同値はid昇順）→ OFFSET/LIMIT の順に適用します。
func (r *stockGorm) List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error) {
	offset, ok := q.Offset()
	if !ok {
		return []entity.Stock{}, nil
	}

	tx := r.db.WithContext(ctx).Model(&entity.Stock{})

	if q.Symbol != "" {
		tx = tx.Where(containsExpr(tx, "symbol"), q.Symbol)
	}
	if q.CompanyName != "" {
		tx = tx.Where(containsExpr(tx, "company_name"), q.CompanyName)
	}

	if col := q.SortBy.Column(); col != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: q.SortDescending})
	}
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})

	var stocks []entity.Stock
	if err := withComments(tx).
		Offset(offset).
		Limit(q.PageSize).
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindByID はIDで銘柄をコメント付きで取得します。
func (r *stockGorm) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var s entity.Stock
	if err := withComments(r.db.WithContext(ctx)).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrStockNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindBySymbol は大文字小文字を区別せずにシンボルで銘柄を取得します。コメントは読み込みません。
func (r *stockGorm) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	return findBySymbol(r.db.WithContext(ctx), symbol)
}

func findBySymbol(tx *gorm.DB, symbol string) (*entity.Stock, error) {
	var s entity.Stock
	if err := tx.Where("UPPER(symbol) = UPPER(?)", symbol).Order("id ASC").First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrStockNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create は銘柄を追加します。シンボル重複時は usecase.ErrSymbolAlreadyExists を返します。
func (r *stockGorm) Create(ctx context.Context, s *entity.Stock) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrSymbolAlreadyExists
		}
		return err
	}
	return nil
}

// Update は6つの業務フィールドのみを上書きします。
func (r *stockGorm) Update(ctx context.Context, s *entity.Stock) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Stock{ID: s.ID}).
		Select("symbol", "company_name", "purchase", "last_div", "industry", "market_cap").
		Updates(map[string]any{
			"symbol":       s.Symbol,
			"company_name": s.CompanyName,
			"purchase":     s.Purchase,
			"last_div":     s.LastDiv,
			"industry":     s.Industry,
			"market_cap":   s.MarketCap,
		})
	if res.Error != nil {
		if db.IsUniqueViolation(res.Error) {
			return usecase.ErrSymbolAlreadyExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrStockNotFound
	}
	return nil
}

// Delete は銘柄・コメント・ポートフォリオ行を1トランザクションで削除し、削除前の銘柄を返します。
// 外部キーのカスケードには依存しません。
func (r *stockGorm) Delete(ctx context.Context, id uint) (*entity.Stock, error) {
	var deleted entity.Stock
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrStockNotFound
			}
			return err
		}
		if err := tx.Where("stock_id = ?", id).Delete(&commententity.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Where("stock_id = ?", id).Delete(&portfolioentity.Portfolio{}).Error; err != nil {
			return fmt.Errorf("failed to delete portfolio rows: %w", err)
		}
		return tx.Delete(&entity.Stock{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// UpsertBySymbol はシンボルが一致する銘柄があれば上書きし、なければ追加します。
// s.ID には保存後のIDが設定されます。
func (r *stockGorm) UpsertBySymbol(ctx context.Context, s *entity.Stock) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findBySymbol(tx, s.Symbol)
		switch {
		case errors.Is(err, usecase.ErrStockNotFound):
			s.ID = 0
			return tx.Omit(clause.Associations).Create(s).Error
		case err != nil:
			return err
		}

		s.ID = existing.ID
		return tx.Model(&entity.Stock{ID: existing.ID}).
			Select("symbol", "company_name", "purchase", "last_div", "industry", "market_cap").
			Updates(map[string]any{
				"symbol":       s.Symbol,
				"company_name": s.CompanyName,
				"purchase":     s.Purchase,
				"last_div":     s.LastDiv,
				"industry":     s.Industry,
				"market_cap":   s.MarketCap,
			}).Error
	})
}
