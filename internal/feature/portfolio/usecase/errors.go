// Package usecase implements the business logic for the portfolio feature.
package usecase

import "errors"

var (
	// ErrStockNotFound is returned when the symbol matches no stored stock
	// and the market-data provider does not know it either.
	ErrStockNotFound = errors.New("stock not found")

	// ErrAlreadyInPortfolio is returned when the user already holds the symbol.
	ErrAlreadyInPortfolio = errors.New("stock already in portfolio")

	// ErrNotInPortfolio is returned when removing a symbol the user does not hold.
	ErrNotInPortfolio = errors.New("stock not found in portfolio")

	// ErrDuplicateHoldings is returned when more than one row matches the symbol.
	// Such rows predate the (user, stock) unique index and need manual cleanup.
	ErrDuplicateHoldings = errors.New("duplicate holdings for symbol")

	// ErrMarketUnavailable is returned when the market-data provider fails.
	ErrMarketUnavailable = errors.New("market data provider unavailable")
)
