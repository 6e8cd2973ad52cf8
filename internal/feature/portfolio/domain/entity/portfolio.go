// Package entity defines the domain models for the portfolio feature.
package entity

import (
	stockentity "portfolio_backend/internal/feature/stocks/domain/entity"
)

// Portfolio associates one user with one stock they hold.
// The (AppUserID, StockID) pair is unique at the store level.
type Portfolio struct {
	ID        uint `gorm:"primaryKey"`
	AppUserID uint `gorm:"not null;uniqueIndex:idx_portfolio_user_stock"`
	StockID   uint `gorm:"not null;uniqueIndex:idx_portfolio_user_stock"`

	Stock stockentity.Stock `gorm:"foreignKey:StockID"`
}
