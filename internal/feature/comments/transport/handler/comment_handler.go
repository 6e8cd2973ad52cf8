// Package handler はcommentsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	authentity "portfolio_backend/internal/feature/auth/domain/entity"
	"portfolio_backend/internal/feature/comments/domain/entity"
	"portfolio_backend/internal/feature/comments/domain/query"
	"portfolio_backend/internal/feature/comments/transport/http/dto"
	"portfolio_backend/internal/feature/comments/usecase"
	jwtmw "portfolio_backend/internal/platform/jwt"
	"portfolio_backend/internal/shared/apierror"
	"portfolio_backend/internal/shared/params"
)

// CommentUsecase はコメントに関するユースケースのインターフェースです。
type CommentUsecase interface {
	List(ctx context.Context, q query.CommentQuery) ([]entity.Comment, error)
	Get(ctx context.Context, id uint) (*entity.Comment, error)
	Create(ctx context.Context, stockID, authorID uint, title, content string) (*entity.Comment, error)
	Update(ctx context.Context, id uint, title, content string, actor usecase.Actor) (*entity.Comment, error)
	Delete(ctx context.Context, id uint, actor usecase.Actor) (*entity.Comment, error)
}

// CommentHandler は /api/comment 配下のHTTPリクエストを処理します。
type CommentHandler struct {
	uc CommentUsecase
}

// NewCommentHandler は新しい CommentHandler を作成します。
func NewCommentHandler(uc CommentUsecase) *CommentHandler {
	return &CommentHandler{uc: uc}
}

// List はコメント一覧を返します。symbol は完全一致、isDescending=true で新しい順です。
func (h *CommentHandler) List(c *gin.Context) {
	var p dto.ListCommentsQuery
	if err := c.ShouldBindQuery(&p); err != nil {
		apierror.BadRequest(c, err)
		return
	}

	comments, err := h.uc.List(c.Request.Context(), query.CommentQuery{Symbol: p.Symbol, IsDescending: p.IsDescending})
	if err != nil {
		log.Error().Err(err).Msg("failed to list comments")
		apierror.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(comments))
}

// Get はIDでコメントを1件返します。
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := params.UintID(c, "id")
	if !ok {
		return
	}

	cm, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*cm))
}

// Create は認証済みユーザーを投稿者としてコメントを作成し、201を返します。
func (h *CommentHandler) Create(c *gin.Context) {
	stockID, ok := params.UintID(c, "stockId")
	if !ok {
		return
	}
	var req dto.CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err)
		return
	}
	ident, ok := identity(c)
	if !ok {
		return
	}

	cm, err := h.uc.Create(c.Request.Context(), stockID, ident.UserID, req.Title, req.Content)
	if err != nil {
		h.writeError(c, err, 0)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(*cm))
}

// Update はタイトルと本文を更新します。投稿者本人またはAdminのみ。
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := params.UintID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err)
		return
	}
	ident, ok := identity(c)
	if !ok {
		return
	}

	cm, err := h.uc.Update(c.Request.Context(), id, req.Title, req.Content, actorOf(ident))
	if err != nil {
		h.writeError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*cm))
}

// Delete はコメントを削除し、削除前の状態を返します。投稿者本人またはAdminのみ。
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := params.UintID(c, "id")
	if !ok {
		return
	}
	ident, ok := identity(c)
	if !ok {
		return
	}

	cm, err := h.uc.Delete(c.Request.Context(), id, actorOf(ident))
	if err != nil {
		h.writeError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*cm))
}

// identity は認証ミドルウェアが設定した利用者を取り出します。未設定なら401で中断します。
func identity(c *gin.Context) (jwtmw.Identity, bool) {
	ident, ok := jwtmw.IdentityFrom(c)
	if !ok {
		apierror.Abort(c, http.StatusUnauthorized, "unauthorized")
	}
	return ident, ok
}

func actorOf(ident jwtmw.Identity) usecase.Actor {
	return usecase.Actor{UserID: ident.UserID, IsAdmin: ident.Role == authentity.RoleAdmin}
}

func (h *CommentHandler) writeError(c *gin.Context, err error, id uint) {
	switch {
	case errors.Is(err, usecase.ErrCommentNotFound):
		apierror.Abort(c, http.StatusNotFound, "Comment not found!")
	case errors.Is(err, usecase.ErrStockNotFound):
		apierror.Abort(c, http.StatusBadRequest, "Stock does not exist!")
	case errors.Is(err, usecase.ErrForbidden):
		apierror.Abort(c, http.StatusForbidden, "You can only change your own comments!")
	default:
		log.Error().Err(err).Uint("comment_id", id).Str("remote_addr", c.ClientIP()).Msg("comment operation failed")
		apierror.Internal(c, err)
	}
}
