package usecase

import (
	"context"

	"portfolio_backend/internal/feature/comments/domain/entity"
	"portfolio_backend/internal/feature/comments/domain/query"
)

// mockCommentRepository is a mock implementation of the CommentRepository interface.
type mockCommentRepository struct {
	ListFunc     func(ctx context.Context, q query.CommentQuery) ([]entity.Comment, error)
	FindByIDFunc func(ctx context.Context, id uint) (*entity.Comment, error)
	CreateFunc   func(ctx context.Context, c *entity.Comment) error
	UpdateFunc   func(ctx context.Context, c *entity.Comment) error
	DeleteFunc   func(ctx context.Context, id uint) error

	Deleted []uint
}

func (m *mockCommentRepository) List(ctx context.Context, q query.CommentQuery) ([]entity.Comment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockCommentRepository) FindByID(ctx context.Context, id uint) (*entity.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrCommentNotFound
}

func (m *mockCommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	c.ID = 1
	return nil
}

func (m *mockCommentRepository) Update(ctx context.Context, c *entity.Comment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, id uint) error {
	m.Deleted = append(m.Deleted, id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// mockStockChecker is a mock implementation of the StockChecker interface.
type mockStockChecker struct {
	ExistsFunc func(ctx context.Context, stockID uint) (bool, error)
}

func (m *mockStockChecker) Exists(ctx context.Context, stockID uint) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, stockID)
	}
	return true, nil
}
