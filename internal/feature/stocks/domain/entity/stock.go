// Package entity defines the domain models for the stocks feature.
package entity

import (
	commententity "portfolio_backend/internal/feature/comments/domain/entity"
)

// Stock represents a listed company a user can comment on or hold.
type Stock struct {
	ID          uint    `gorm:"primaryKey"`
	Symbol      string  `gorm:"size:10;not null;uniqueIndex"`
	CompanyName string  `gorm:"size:100;not null"`
	Purchase    float64 `gorm:"type:decimal(18,2);not null"`
	LastDiv     float64 `gorm:"type:decimal(18,2);not null"`
	Industry    string  `gorm:"size:50;not null"`
	MarketCap   int64   `gorm:"not null"`

	Comments []commententity.Comment `gorm:"foreignKey:StockID"`
}
