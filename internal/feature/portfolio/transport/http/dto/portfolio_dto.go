// Package dto defines data transfer objects for the portfolio HTTP API.
package dto

// SymbolQuery holds the symbol query parameter of POST and DELETE /api/portfolio.
type SymbolQuery struct {
	Symbol string `form:"symbol" binding:"required,max=10"`
}

// MessageRes confirms a portfolio change.
type MessageRes struct {
	Message string `json:"message"`
	Symbol  string `json:"symbol"`
}
