// Package usecase implements the business logic for the stocks feature.
package usecase

import "errors"

var (
	// ErrStockNotFound is returned when no stock matches the given id or symbol.
	ErrStockNotFound = errors.New("stock not found")

	// ErrSymbolAlreadyExists is returned when another stock already uses the symbol.
	ErrSymbolAlreadyExists = errors.New("stock symbol already exists")

	// ErrMarketDataUnavailable is returned by import when no market-data provider is configured.
	ErrMarketDataUnavailable = errors.New("market data provider is not configured")
)
