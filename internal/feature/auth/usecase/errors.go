// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"errors"
	"strings"
)

var (
	// ErrUserNotFound is returned when no user matches the given username.
	ErrUserNotFound = errors.New("user not found")

	// ErrIncorrectPassword is returned when the password does not match the stored hash.
	ErrIncorrectPassword = errors.New("password is incorrect")

	// ErrUserAlreadyExists is returned when the username or email is already registered.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrWeakPassword is returned when a password fails the password policy.
	// The concrete error is a *PasswordPolicyError listing every failed rule.
	ErrWeakPassword = errors.New("password does not meet policy")

	// ErrInvalidRole is returned when assigning a role outside the known set.
	ErrInvalidRole = errors.New("invalid role")
)

// PasswordPolicyError lists every password rule a candidate password broke.
type PasswordPolicyError struct {
	Problems []string
}

func (e *PasswordPolicyError) Error() string {
	return ErrWeakPassword.Error() + ": " + strings.Join(e.Problems, "; ")
}

// Unwrap lets errors.Is match ErrWeakPassword.
func (e *PasswordPolicyError) Unwrap() error {
	return ErrWeakPassword
}
