package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/feature/auth/domain/entity"
	"portfolio_backend/internal/feature/auth/usecase"
	"portfolio_backend/internal/platform/db/dbtest"
)

func newUser(username, email string) *entity.User {
	return &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hashed_password",
		Role:         entity.RoleUser,
	}
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserRepository(dbtest.Open(t))

		user := newUser("alice", "alice@example.com")
		err := repo.Create(context.Background(), user)

		require.NoError(t, err)
		assert.NotZero(t, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo := NewUserRepository(dbtest.Open(t))
		require.NoError(t, repo.Create(context.Background(), newUser("alice", "alice@example.com")))

		err := repo.Create(context.Background(), newUser("alice", "other@example.com"))

		assert.ErrorIs(t, err, usecase.ErrUserAlreadyExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := NewUserRepository(dbtest.Open(t))
		require.NoError(t, repo.Create(context.Background(), newUser("alice", "alice@example.com")))

		err := repo.Create(context.Background(), newUser("bob", "alice@example.com"))

		assert.ErrorIs(t, err, usecase.ErrUserAlreadyExists)
	})
}

func TestUserGorm_Find(t *testing.T) {
	repo := NewUserRepository(dbtest.Open(t))
	ctx := context.Background()
	created := newUser("alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, created))

	t.Run("by username", func(t *testing.T) {
		u, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, created.ID, u.ID)
		assert.Equal(t, "alice@example.com", u.Email)
	})

	t.Run("by email", func(t *testing.T) {
		u, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}

func TestUserGorm_UpdateRole(t *testing.T) {
	repo := NewUserRepository(dbtest.Open(t))
	ctx := context.Background()
	u := newUser("alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.UpdateRole(ctx, u.ID, entity.RoleAdmin))

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, got.Role)

	assert.ErrorIs(t, repo.UpdateRole(ctx, 9999, entity.RoleAdmin), usecase.ErrUserNotFound)
}
