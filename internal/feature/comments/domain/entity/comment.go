// Package entity defines the domain models for the comments feature.
package entity

import (
	"time"

	authentity "portfolio_backend/internal/feature/auth/domain/entity"
)

// Comment is a note a user leaves on a stock.
// Title and Content bounds are enforced by the request DTOs, not here.
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:100;not null"`
	Content   string    `gorm:"size:280;not null"`
	CreatedOn time.Time `gorm:"not null;index"`
	StockID   uint      `gorm:"not null;index"`
	AppUserID uint      `gorm:"not null;index"`

	// AppUser is the author. It is preloaded for responses and never written through.
	AppUser *authentity.User `gorm:"foreignKey:AppUserID"`
}

// AuthorName returns the author's username, or "" when the author was not loaded.
func (c *Comment) AuthorName() string {
	if c.AppUser == nil {
		return ""
	}
	return c.AppUser.Username
}
