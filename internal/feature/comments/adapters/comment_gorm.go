// Package adapters はcommentsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio_backend/internal/feature/comments/domain/entity"
	"portfolio_backend/internal/feature/comments/domain/query"
	"portfolio_backend/internal/feature/comments/usecase"
)

// commentGorm はCommentRepositoryインターフェースのGORM実装です。
type commentGorm struct {
	db *gorm.DB
}

var _ usecase.CommentRepository = (*commentGorm)(nil)

// NewCommentRepository は指定されたDB接続でcommentGormリポジトリの新しいインスタンスを生成します。
func NewCommentRepository(db *gorm.DB) *commentGorm {
	return &commentGorm{db: db}
}

// List はシンボル完全一致（stocksとのJOIN）と作成日時の降順指定を適用します。
// 降順指定がない場合はID昇順です。
func (r *commentGorm) List(ctx context.Context, q query.CommentQuery) ([]entity.Comment, error) {
	tx := r.db.WithContext(ctx).Model(&entity.Comment{}).Preload("AppUser")

	if q.Symbol != "" {
		tx = tx.Joins("JOIN stocks ON stocks.id = comments.stock_id").
			Where("stocks.symbol = ?", q.Symbol)
	}
	if q.NewestFirst() {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Table: "comments", Name: "created_on"}, Desc: true})
	}
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Table: "comments", Name: "id"}})

	var comments []entity.Comment
	if err := tx.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// FindByID はIDでコメントを投稿者付きで取得します。
func (r *commentGorm) FindByID(ctx context.Context, id uint) (*entity.Comment, error) {
	var c entity.Comment
	if err := r.db.WithContext(ctx).Preload("AppUser").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create はコメントを追加します。投稿者は書き込みません。
func (r *commentGorm) Create(ctx context.Context, c *entity.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

// Update はタイトルと本文のみを上書きします。
func (r *commentGorm) Update(ctx context.Context, c *entity.Comment) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Comment{ID: c.ID}).
		Select("title", "content").
		Updates(map[string]any{"title": c.Title, "content": c.Content})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrCommentNotFound
	}
	return nil
}

// Delete はコメントを削除します。
func (r *commentGorm) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrCommentNotFound
	}
	return nil
}

// stockChecker はStockCheckerインターフェースのGORM実装です。
type stockChecker struct {
	db *gorm.DB
}

var _ usecase.StockChecker = (*stockChecker)(nil)

// NewStockChecker は銘柄の存在確認を行うStockCheckerを生成します。
func NewStockChecker(db *gorm.DB) *stockChecker {
	return &stockChecker{db: db}
}

// Exists は指定IDの銘柄が存在するかを返します。
func (s *stockChecker) Exists(ctx context.Context, stockID uint) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Table("stocks").Where("id = ?", stockID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
