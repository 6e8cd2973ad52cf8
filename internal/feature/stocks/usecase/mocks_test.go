package usecase

import (
	"context"

	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/domain/query"
)

// mockStockRepository is a mock implementation of the StockRepository interface.
type mockStockRepository struct {
	ListFunc           func(ctx context.Context, q query.StockQuery) ([]entity.Stock, error)
	FindByIDFunc       func(ctx context.Context, id uint) (*entity.Stock, error)
	FindBySymbolFunc   func(ctx context.Context, symbol string) (*entity.Stock, error)
	CreateFunc         func(ctx context.Context, s *entity.Stock) error
	UpdateFunc         func(ctx context.Context, s *entity.Stock) error
	DeleteFunc         func(ctx context.Context, id uint) (*entity.Stock, error)
	UpsertBySymbolFunc func(ctx context.Context, s *entity.Stock) error

	UpsertCalls []string
}

func (m *mockStockRepository) List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockStockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrStockNotFound
}

func (m *mockStockRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	if m.FindBySymbolFunc != nil {
		return m.FindBySymbolFunc(ctx, symbol)
	}
	return nil, ErrStockNotFound
}

func (m *mockStockRepository) Create(ctx context.Context, s *entity.Stock) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	s.ID = 1
	return nil
}

func (m *mockStockRepository) Update(ctx context.Context, s *entity.Stock) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, s)
	}
	return nil
}

func (m *mockStockRepository) Delete(ctx context.Context, id uint) (*entity.Stock, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil, ErrStockNotFound
}

func (m *mockStockRepository) UpsertBySymbol(ctx context.Context, s *entity.Stock) error {
	m.UpsertCalls = append(m.UpsertCalls, s.Symbol)
	if m.UpsertBySymbolFunc != nil {
		return m.UpsertBySymbolFunc(ctx, s)
	}
	s.ID = uint(len(m.UpsertCalls))
	return nil
}

// mockMarketRepository is a mock implementation of the MarketRepository interface.
type mockMarketRepository struct {
	LookupStockFunc  func(ctx context.Context, symbol string) (*entity.Stock, error)
	LookupStockCalls int
}

func (m *mockMarketRepository) LookupStock(ctx context.Context, symbol string) (*entity.Stock, error) {
	m.LookupStockCalls++
	if m.LookupStockFunc != nil {
		return m.LookupStockFunc(ctx, symbol)
	}
	return nil, ErrStockNotFound
}
