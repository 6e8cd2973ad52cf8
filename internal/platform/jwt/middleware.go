package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// ContextIdentity is the gin context key holding the resolved Identity.
const ContextIdentity = "identity"

// ErrUnknownIdentity is returned by an IdentityResolver when the token's
// username no longer matches a stored user.
var ErrUnknownIdentity = errors.New("unknown identity")

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID   uint
	Username string
	Email    string
	Role     string
}

// IdentityResolver loads the current identity for a token's username claim.
type IdentityResolver func(ctx context.Context, username string) (Identity, error)

// AuthRequired returns a Gin middleware that validates the bearer token,
// resolves its username claim to a stored user and attaches the Identity.
func AuthRequired(secret string, resolve IdentityResolver) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		if len(key) == 0 {
			// Server misconfiguration (JWT_SECRET not set)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		username, _ := claims[ClaimUsername].(string)
		if username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		id, err := resolve(c.Request.Context(), username)
		if err != nil {
			if errors.Is(err, ErrUnknownIdentity) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			log.Error().Err(err).Str("username", username).Msg("failed to resolve identity")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(ContextIdentity, id)
		c.Next()
	}
}

// IdentityFrom returns the Identity attached by AuthRequired.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
