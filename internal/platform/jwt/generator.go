// Package jwtmw issues bearer tokens and guards routes that require them.
package jwtmw

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim names carried by every token.
const (
	ClaimSubject  = "sub"
	ClaimUsername = "username"
	ClaimEmail    = "email"
	ClaimRole     = "role"
)

// Generator signs HS256 tokens for authenticated users.
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *Generator {
	return &Generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed JWT carrying the user's id, username, email and role.
func (g *Generator) GenerateToken(userID uint, username, email, role string) (string, error) {
	if len(g.secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}

	now := g.now()
	claims := jwt.MapClaims{
		ClaimSubject:  strconv.FormatUint(uint64(userID), 10),
		ClaimUsername: username,
		ClaimEmail:    email,
		ClaimRole:     role,
		"iat":         now.Unix(),
		"exp":         now.Add(g.expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
