// Package handler はportfolioフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"portfolio_backend/internal/feature/portfolio/transport/http/dto"
	"portfolio_backend/internal/feature/portfolio/usecase"
	stockentity "portfolio_backend/internal/feature/stocks/domain/entity"
	stockdto "portfolio_backend/internal/feature/stocks/transport/http/dto"
	jwtmw "portfolio_backend/internal/platform/jwt"
	"portfolio_backend/internal/shared/apierror"
)

// PortfolioUsecase はポートフォリオに関するユースケースのインターフェースです。
type PortfolioUsecase interface {
	List(ctx context.Context, userID uint) ([]stockentity.Stock, error)
	Add(ctx context.Context, userID uint, symbol string) (*stockentity.Stock, error)
	Remove(ctx context.Context, userID uint, symbol string) error
}

// PortfolioHandler は /api/portfolio のHTTPリクエストを処理します。
type PortfolioHandler struct {
	uc PortfolioUsecase
}

// NewPortfolioHandler は新しい PortfolioHandler を作成します。
func NewPortfolioHandler(uc PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc}
}

// List は認証ユーザーの保有銘柄を返します。
func (h *PortfolioHandler) List(c *gin.Context) {
	ident, ok := jwtmw.IdentityFrom(c)
	if !ok {
		apierror.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	stocks, err := h.uc.List(c.Request.Context(), ident.UserID)
	if err != nil {
		log.Error().Err(err).Uint("user_id", ident.UserID).Msg("failed to list portfolio")
		apierror.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, stockdto.FromEntities(stocks))
}

// Add は ?symbol= の銘柄をポートフォリオに追加し、201を返します。
func (h *PortfolioHandler) Add(c *gin.Context) {
	ident, symbol, ok := bind(c)
	if !ok {
		return
	}

	s, err := h.uc.Add(c.Request.Context(), ident.UserID, symbol)
	if err != nil {
		writeError(c, err, ident.UserID, symbol)
		return
	}
	c.JSON(http.StatusCreated, dto.MessageRes{Message: "Stock added to portfolio!", Symbol: s.Symbol})
}

// Remove は ?symbol= の銘柄をポートフォリオから削除します。
func (h *PortfolioHandler) Remove(c *gin.Context) {
	ident, symbol, ok := bind(c)
	if !ok {
		return
	}

	if err := h.uc.Remove(c.Request.Context(), ident.UserID, symbol); err != nil {
		writeError(c, err, ident.UserID, symbol)
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Stock deleted from portfolio!", Symbol: symbol})
}

func bind(c *gin.Context) (jwtmw.Identity, string, bool) {
	ident, ok := jwtmw.IdentityFrom(c)
	if !ok {
		apierror.Abort(c, http.StatusUnauthorized, "unauthorized")
		return jwtmw.Identity{}, "", false
	}
	var q dto.SymbolQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierror.BadRequest(c, err)
		return jwtmw.Identity{}, "", false
	}
	return ident, q.Symbol, true
}

func writeError(c *gin.Context, err error, userID uint, symbol string) {
	switch {
	case errors.Is(err, usecase.ErrStockNotFound):
		apierror.Abort(c, http.StatusBadRequest, "Stock not found!")
	case errors.Is(err, usecase.ErrAlreadyInPortfolio):
		apierror.Abort(c, http.StatusConflict, "Stock already in portfolio!")
	case errors.Is(err, usecase.ErrNotInPortfolio):
		apierror.Abort(c, http.StatusNotFound, "Stock not found in portfolio!")
	case errors.Is(err, usecase.ErrDuplicateHoldings):
		apierror.Abort(c, http.StatusConflict, "Duplicate holdings for symbol")
	case errors.Is(err, usecase.ErrMarketUnavailable):
		apierror.Abort(c, http.StatusBadGateway, "Market data provider unavailable")
	default:
		log.Error().Err(err).Uint("user_id", userID).Str("symbol", symbol).Msg("portfolio operation failed")
		apierror.Internal(c, err)
	}
}
