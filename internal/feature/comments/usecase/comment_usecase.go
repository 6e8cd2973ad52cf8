package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"portfolio_backend/internal/feature/comments/domain/entity"
	"portfolio_backend/internal/feature/comments/domain/query"
	"portfolio_backend/internal/platform/metrics"
)

// CommentRepository はコメントエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type CommentRepository interface {
	// List は条件に一致するコメントを投稿者付きで返します。
	List(ctx context.Context, q query.CommentQuery) ([]entity.Comment, error)
	// FindByID はコメントを投稿者付きで返します。存在しない場合 ErrCommentNotFound。
	FindByID(ctx context.Context, id uint) (*entity.Comment, error)
	// Create はコメントを追加し、c.ID を設定します。
	Create(ctx context.Context, c *entity.Comment) error
	// Update はタイトルと本文のみを上書きします。
	Update(ctx context.Context, c *entity.Comment) error
	// Delete はコメントを削除します。
	Delete(ctx context.Context, id uint) error
}

// StockChecker は銘柄の存在確認を抽象化します。
// stocksフィーチャーはcommentsに依存するため、ここで独自に定義します。
type StockChecker interface {
	Exists(ctx context.Context, stockID uint) (bool, error)
}

// Actor はコメントを変更しようとしている利用者です。
type Actor struct {
	UserID  uint
	IsAdmin bool
}

// canModify は投稿者本人またはAdminのみ変更を許可します。
func (a Actor) canModify(c *entity.Comment) bool {
	return a.IsAdmin || a.UserID == c.AppUserID
}

// CommentUsecase はコメントのCRUDを提供します。
type CommentUsecase struct {
	repo   CommentRepository
	stocks StockChecker
	now    func() time.Time
}

// NewCommentUsecase はCommentUsecaseの新しいインスタンスを生成します。
func NewCommentUsecase(repo CommentRepository, stocks StockChecker) *CommentUsecase {
	return &CommentUsecase{
		repo:   repo,
		stocks: stocks,
		now:    time.Now,
	}
}

// List は条件に一致するコメント一覧を返します。
func (u *CommentUsecase) List(ctx context.Context, q query.CommentQuery) ([]entity.Comment, error) {
	return u.repo.List(ctx, q)
}

// Get はIDでコメントを取得します。
func (u *CommentUsecase) Get(ctx context.Context, id uint) (*entity.Comment, error) {
	return u.repo.FindByID(ctx, id)
}

// Create は銘柄にコメントを投稿します。
// 銘柄が存在しない場合は ErrStockNotFound を返します。IDと作成日時はサーバー側で設定します。
func (u *CommentUsecase) Create(ctx context.Context, stockID, authorID uint, title, content string) (*entity.Comment, error) {
	ok, err := u.stocks.Exists(ctx, stockID)
	if err != nil {
		return nil, fmt.Errorf("failed to check stock %d: %w", stockID, err)
	}
	if !ok {
		return nil, ErrStockNotFound
	}

	c := &entity.Comment{
		Title:     title,
		Content:   content,
		CreatedOn: u.now().UTC(),
		StockID:   stockID,
		AppUserID: authorID,
	}
	if err := u.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	metrics.CommentsCreatedTotal.Inc()
	log.Info().Uint("comment_id", c.ID).Uint("stock_id", stockID).Uint("user_id", authorID).Msg("comment created")

	// 投稿者名を含めて返すため再取得します
	created, err := u.repo.FindByID(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment %d: %w", c.ID, err)
	}
	return created, nil
}

// Update はタイトルと本文を更新します。投稿者本人またはAdminのみ実行できます。
func (u *CommentUsecase) Update(ctx context.Context, id uint, title, content string, actor Actor) (*entity.Comment, error) {
	c, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canModify(c) {
		return nil, ErrForbidden
	}

	c.Title = title
	c.Content = content
	if err := u.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update comment %d: %w", id, err)
	}
	return c, nil
}

// Delete はコメントを削除し、削除前の状態を返します。投稿者本人またはAdminのみ実行できます。
func (u *CommentUsecase) Delete(ctx context.Context, id uint, actor Actor) (*entity.Comment, error) {
	c, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canModify(c) {
		return nil, ErrForbidden
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	log.Info().Uint("comment_id", id).Uint("user_id", actor.UserID).Msg("comment deleted")
	return c, nil
}
