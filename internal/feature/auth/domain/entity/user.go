// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Roles a user can hold. Every user holds exactly one.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User represents a registered account.
// Username and Email are stored lower-case so lookups are case-insensitive.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Username is the login name. It must be unique across all users.
	Username string `gorm:"uniqueIndex;size:64;not null"`

	// Email must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is the bcrypt hash. Plaintext passwords are never stored.
	PasswordHash string `gorm:"size:255;not null"`

	// Role is RoleUser or RoleAdmin.
	Role string `gorm:"size:16;not null;default:User"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user holds the Admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
