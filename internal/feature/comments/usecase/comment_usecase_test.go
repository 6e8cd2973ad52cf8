package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "portfolio_backend/internal/feature/auth/domain/entity"
	"portfolio_backend/internal/feature/comments/domain/entity"
	"portfolio_backend/internal/feature/comments/domain/query"
	"portfolio_backend/internal/platform/metrics"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCommentUsecase_List(t *testing.T) {
	desc := true
	var got query.CommentQuery
	repo := &mockCommentRepository{ListFunc: func(ctx context.Context, q query.CommentQuery) ([]entity.Comment, error) {
		got = q
		return []entity.Comment{{ID: 1}}, nil
	}}
	uc := NewCommentUsecase(repo, &mockStockChecker{})

	out, err := uc.List(context.Background(), query.CommentQuery{Symbol: "AAPL", IsDescending: &desc})

	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.True(t, got.NewestFirst())
}

func TestCommentUsecase_Create(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("JST", 9*60*60))

	t.Run("stores the comment and reloads it with its author", func(t *testing.T) {
		var stored entity.Comment
		repo := &mockCommentRepository{
			CreateFunc: func(ctx context.Context, c *entity.Comment) error {
				c.ID = 42
				stored = *c
				return nil
			},
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.Comment, error) {
				c := stored
				c.AppUser = &authentity.User{ID: c.AppUserID, Username: "alice"}
				return &c, nil
			},
		}
		uc := NewCommentUsecase(repo, &mockStockChecker{})
		uc.now = fixedClock(now)
		before := testutil.ToFloat64(metrics.CommentsCreatedTotal)

		c, err := uc.Create(context.Background(), 3, 7, "Great quarter", "Revenue up again")

		require.NoError(t, err)
		assert.Equal(t, uint(42), c.ID)
		assert.Equal(t, uint(3), c.StockID)
		assert.Equal(t, uint(7), c.AppUserID)
		assert.Equal(t, "alice", c.AuthorName())
		assert.Equal(t, now.UTC(), c.CreatedOn)
		assert.Equal(t, time.UTC, c.CreatedOn.Location())
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.CommentsCreatedTotal))
	})

	t.Run("unknown stock", func(t *testing.T) {
		created := false
		repo := &mockCommentRepository{CreateFunc: func(ctx context.Context, c *entity.Comment) error {
			created = true
			return nil
		}}
		stocks := &mockStockChecker{ExistsFunc: func(ctx context.Context, stockID uint) (bool, error) { return false, nil }}

		_, err := NewCommentUsecase(repo, stocks).Create(context.Background(), 99, 7, "Title", "Content")

		assert.ErrorIs(t, err, ErrStockNotFound)
		assert.False(t, created)
	})

	t.Run("stock check failure", func(t *testing.T) {
		boom := errors.New("db down")
		stocks := &mockStockChecker{ExistsFunc: func(ctx context.Context, stockID uint) (bool, error) { return false, boom }}

		_, err := NewCommentUsecase(&mockCommentRepository{}, stocks).Create(context.Background(), 1, 7, "Title", "Content")

		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrStockNotFound)
	})
}

func TestCommentUsecase_UpdateAndDelete(t *testing.T) {
	existing := func() *entity.Comment {
		return &entity.Comment{ID: 5, Title: "Old title", Content: "Old content", StockID: 1, AppUserID: 7}
	}

	tests := []struct {
		name    string
		actor   Actor
		wantErr error
	}{
		{"author", Actor{UserID: 7}, nil},
		{"admin", Actor{UserID: 8, IsAdmin: true}, nil},
		{"someone else", Actor{UserID: 8}, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run("update by "+tt.name, func(t *testing.T) {
			var saved *entity.Comment
			repo := &mockCommentRepository{
				FindByIDFunc: func(ctx context.Context, id uint) (*entity.Comment, error) { return existing(), nil },
				UpdateFunc: func(ctx context.Context, c *entity.Comment) error {
					saved = c
					return nil
				},
			}

			c, err := NewCommentUsecase(repo, &mockStockChecker{}).Update(context.Background(), 5, "New title", "New content", tt.actor)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, saved)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "New title", c.Title)
			assert.Equal(t, "New content", c.Content)
			assert.Equal(t, uint(7), saved.AppUserID)
			assert.Equal(t, uint(1), saved.StockID)
		})

		t.Run("delete by "+tt.name, func(t *testing.T) {
			repo := &mockCommentRepository{
				FindByIDFunc: func(ctx context.Context, id uint) (*entity.Comment, error) { return existing(), nil },
			}

			c, err := NewCommentUsecase(repo, &mockStockChecker{}).Delete(context.Background(), 5, tt.actor)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.Deleted)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Old title", c.Title)
			assert.Equal(t, []uint{5}, repo.Deleted)
		})
	}

	t.Run("missing comment", func(t *testing.T) {
		uc := NewCommentUsecase(&mockCommentRepository{}, &mockStockChecker{})

		_, err := uc.Update(context.Background(), 1, "Title", "Content", Actor{UserID: 7})
		assert.ErrorIs(t, err, ErrCommentNotFound)

		_, err = uc.Delete(context.Background(), 1, Actor{UserID: 7, IsAdmin: true})
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})
}
