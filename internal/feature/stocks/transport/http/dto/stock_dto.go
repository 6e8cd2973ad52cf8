// Package dto defines data transfer objects for the stocks HTTP API.
package dto

import (
	commentdto "portfolio_backend/internal/feature/comments/transport/http/dto"
	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/domain/query"
)

// ListStocksQuery holds the query parameters of GET /api/stock.
type ListStocksQuery struct {
	Symbol         string `form:"symbol"`
	CompanyName    string `form:"companyName"`
	SortBy         string `form:"sortBy"`
	SortDescending bool   `form:"sortDescending"`
	PageNumber     int    `form:"pageNumber,default=1" binding:"min=1"`
	PageSize       int    `form:"pageSize,default=20" binding:"min=1"`
}

// ToQuery converts the parameters to a domain query.
func (p ListStocksQuery) ToQuery() query.StockQuery {
	return query.StockQuery{
		Symbol:         p.Symbol,
		CompanyName:    p.CompanyName,
		SortBy:         query.ParseSortKey(p.SortBy),
		SortDescending: p.SortDescending,
		PageNumber:     p.PageNumber,
		PageSize:       p.PageSize,
	}
}

// StockReq is the body of POST /api/stock and PUT /api/stock/:id.
type StockReq struct {
	Symbol      string  `json:"symbol" binding:"required,max=10"`
	CompanyName string  `json:"companyName" binding:"required,max=100"`
	Purchase    float64 `json:"purchase" binding:"gte=0,lte=1000000000"`
	LastDiv     float64 `json:"lastDiv" binding:"gte=0,lte=100"`
	Industry    string  `json:"industry" binding:"required,max=50"`
	MarketCap   int64   `json:"marketCap" binding:"gte=0,lte=5000000000000"`
}

// ToEntity converts the body to a stock without an id.
func (r StockReq) ToEntity() entity.Stock {
	return entity.Stock{
		Symbol:      r.Symbol,
		CompanyName: r.CompanyName,
		Purchase:    r.Purchase,
		LastDiv:     r.LastDiv,
		Industry:    r.Industry,
		MarketCap:   r.MarketCap,
	}
}

// StockRes is the public shape of a stock with its comments.
type StockRes struct {
	ID          uint                    `json:"id"`
	Symbol      string                  `json:"symbol"`
	CompanyName string                  `json:"companyName"`
	Purchase    float64                 `json:"purchase"`
	LastDiv     float64                 `json:"lastDiv"`
	Industry    string                  `json:"industry"`
	MarketCap   int64                   `json:"marketCap"`
	Comments    []commentdto.CommentRes `json:"comments"`
}

// FromEntity maps a stock and its loaded comments.
func FromEntity(s entity.Stock) StockRes {
	return StockRes{
		ID:          s.ID,
		Symbol:      s.Symbol,
		CompanyName: s.CompanyName,
		Purchase:    s.Purchase,
		LastDiv:     s.LastDiv,
		Industry:    s.Industry,
		MarketCap:   s.MarketCap,
		Comments:    commentdto.FromEntities(s.Comments),
	}
}

// FromEntities maps a slice of stocks, never returning nil.
func FromEntities(ss []entity.Stock) []StockRes {
	out := make([]StockRes, 0, len(ss))
	for _, s := range ss {
		out = append(out, FromEntity(s))
	}
	return out
}
