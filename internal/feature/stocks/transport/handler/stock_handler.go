// Package handler はstocksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/domain/query"
	"portfolio_backend/internal/feature/stocks/transport/http/dto"
	"portfolio_backend/internal/feature/stocks/usecase"
	"portfolio_backend/internal/shared/apierror"
	"portfolio_backend/internal/shared/params"
)

// StockUsecase は銘柄に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type StockUsecase interface {
	List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error)
	Get(ctx context.Context, id uint) (*entity.Stock, error)
	Create(ctx context.Context, s *entity.Stock) error
	Update(ctx context.Context, id uint, in entity.Stock) (*entity.Stock, error)
	Delete(ctx context.Context, id uint) (*entity.Stock, error)
}

// StockHandler は /api/stock 配下のHTTPリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler は新しい StockHandler を作成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List は絞り込み・並び替え・ページングした銘柄一覧を返します。
// pageNumber・pageSize が1未満の場合は400を返します。
func (h *StockHandler) List(c *gin.Context) {
	var p dto.ListStocksQuery
	if err := c.ShouldBindQuery(&p); err != nil {
		apierror.BadRequest(c, err)
		return
	}

	stocks, err := h.uc.List(c.Request.Context(), p.ToQuery())
	if err != nil {
		if errors.Is(err, query.ErrInvalidPage) {
			c.JSON(http.StatusBadRequest, apierror.Single("pageNumber", err.Error()))
			return
		}
		log.Error().Err(err).Msg("failed to list stocks")
		apierror.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(stocks))
}

// Get はIDで銘柄を1件返します。
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := params.UintID(c, "id")
	if !ok {
		return
	}

	s, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*s))
}

// Create は銘柄を登録し、201と作成した銘柄を返します（Admin専用）。
func (h *StockHandler) Create(c *gin.Context) {
	var req dto.StockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err)
		return
	}

	s := req.ToEntity()
	if err := h.uc.Create(c.Request.Context(), &s); err != nil {
		h.writeError(c, err, 0)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(s))
}

// Update は銘柄の全業務フィールドを上書きします（Admin専用）。
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := params.UintID(c, "id")
	if !ok {
		return
	}
	var req dto.StockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err)
		return
	}

	s, err := h.uc.Update(c.Request.Context(), id, req.ToEntity())
	if err != nil {
		h.writeError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*s))
}

// Delete は銘柄を削除し、削除前の状態を返します（Admin専用）。
func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := params.UintID(c, "id")
	if !ok {
		return
	}

	s, err := h.uc.Delete(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*s))
}

func (h *StockHandler) writeError(c *gin.Context, err error, id uint) {
	switch {
	case errors.Is(err, usecase.ErrStockNotFound):
		apierror.Abort(c, http.StatusNotFound, "Stock not found!")
	case errors.Is(err, usecase.ErrSymbolAlreadyExists):
		apierror.Abort(c, http.StatusConflict, "Stock symbol already exists!")
	default:
		log.Error().Err(err).Uint("stock_id", id).Msg("stock operation failed")
		apierror.Internal(c, err)
	}
}
