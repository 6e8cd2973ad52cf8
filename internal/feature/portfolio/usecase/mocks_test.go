package usecase

import (
	"context"

	"portfolio_backend/internal/feature/portfolio/domain/entity"
	stockentity "portfolio_backend/internal/feature/stocks/domain/entity"
	stockusecase "portfolio_backend/internal/feature/stocks/usecase"
)

// mockPortfolioRepository is a mock implementation of the PortfolioRepository interface.
type mockPortfolioRepository struct {
	ListStocksFunc       func(ctx context.Context, userID uint) ([]stockentity.Stock, error)
	HoldingsBySymbolFunc func(ctx context.Context, userID uint, symbol string) ([]entity.Portfolio, error)
	CreateFunc           func(ctx context.Context, p *entity.Portfolio) error
	DeleteFunc           func(ctx context.Context, id uint) error

	Created []entity.Portfolio
	Deleted []uint
}

func (m *mockPortfolioRepository) ListStocks(ctx context.Context, userID uint) ([]stockentity.Stock, error) {
	if m.ListStocksFunc != nil {
		return m.ListStocksFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockPortfolioRepository) HoldingsBySymbol(ctx context.Context, userID uint, symbol string) ([]entity.Portfolio, error) {
	if m.HoldingsBySymbolFunc != nil {
		return m.HoldingsBySymbolFunc(ctx, userID, symbol)
	}
	return nil, nil
}

func (m *mockPortfolioRepository) Create(ctx context.Context, p *entity.Portfolio) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, p); err != nil {
			return err
		}
	}
	m.Created = append(m.Created, *p)
	return nil
}

func (m *mockPortfolioRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		if err := m.DeleteFunc(ctx, id); err != nil {
			return err
		}
	}
	m.Deleted = append(m.Deleted, id)
	return nil
}

// mockStockStore is a mock implementation of the StockStore interface backed by a map.
type mockStockStore struct {
	bySymbol  map[string]*stockentity.Stock
	CreateErr error
	nextID    uint
}

func newMockStockStore(stocks ...stockentity.Stock) *mockStockStore {
	m := &mockStockStore{bySymbol: map[string]*stockentity.Stock{}, nextID: 100}
	for i := range stocks {
		s := stocks[i]
		m.bySymbol[s.Symbol] = &s
	}
	return m
}

func (m *mockStockStore) FindBySymbol(ctx context.Context, symbol string) (*stockentity.Stock, error) {
	if s, ok := m.bySymbol[stockusecase.NormalizeSymbol(symbol)]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, stockusecase.ErrStockNotFound
}

func (m *mockStockStore) Create(ctx context.Context, s *stockentity.Stock) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.nextID++
	s.ID = m.nextID
	cp := *s
	m.bySymbol[s.Symbol] = &cp
	return nil
}

// mockMarketLookup is a mock implementation of the MarketLookup interface.
type mockMarketLookup struct {
	LookupStockFunc func(ctx context.Context, symbol string) (*stockentity.Stock, error)
	Calls           []string
}

func (m *mockMarketLookup) LookupStock(ctx context.Context, symbol string) (*stockentity.Stock, error) {
	m.Calls = append(m.Calls, symbol)
	if m.LookupStockFunc != nil {
		return m.LookupStockFunc(ctx, symbol)
	}
	return nil, stockusecase.ErrStockNotFound
}
