package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/feature/stocks/domain/entity"
)

var errMarketAPI = errors.New("market API error")

func TestImportUsecase_ImportAll(t *testing.T) {
	ctx := context.Background()

	t.Run("imports every symbol and skips failures", func(t *testing.T) {
		market := &mockMarketRepository{LookupStockFunc: func(ctx context.Context, symbol string) (*entity.Stock, error) {
			switch symbol {
			case "AAPL":
				return &entity.Stock{ID: 77, Symbol: "aapl", CompanyName: "Apple Inc."}, nil
			case "MSFT":
				return &entity.Stock{Symbol: "MSFT", CompanyName: "Microsoft"}, nil
			default:
				return nil, errMarketAPI
			}
		}}
		repo := &mockStockRepository{}

		results, err := NewImportUsecase(market, repo).ImportAll(ctx, []string{"aapl", " ", "BAD", "msft"})

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "AAPL", results[0].Symbol)
		assert.NoError(t, results[0].Err)
		assert.Equal(t, "AAPL", results[0].Stock.Symbol, "provider symbol is normalized")
		assert.Equal(t, "BAD", results[1].Symbol)
		assert.ErrorIs(t, results[1].Err, errMarketAPI)
		assert.Equal(t, "MSFT", results[2].Symbol)
		assert.NoError(t, results[2].Err)

		assert.Equal(t, 3, market.LookupStockCalls)
		assert.Equal(t, []string{"AAPL", "MSFT"}, repo.UpsertCalls)
	})

	t.Run("upsert failure is reported per symbol", func(t *testing.T) {
		market := &mockMarketRepository{LookupStockFunc: func(ctx context.Context, symbol string) (*entity.Stock, error) {
			return &entity.Stock{Symbol: symbol}, nil
		}}
		repo := &mockStockRepository{UpsertBySymbolFunc: func(ctx context.Context, s *entity.Stock) error {
			return errors.New("constraint failed")
		}}

		results, err := NewImportUsecase(market, repo).ImportAll(ctx, []string{"AAPL"})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Error(t, results[0].Err)
	})

	t.Run("cancelled context stops the run", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		market := &mockMarketRepository{LookupStockFunc: func(ctx context.Context, symbol string) (*entity.Stock, error) {
			cancel()
			return nil, context.Canceled
		}}

		results, err := NewImportUsecase(market, &mockStockRepository{}).ImportAll(cctx, []string{"AAPL", "MSFT"})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, results)
		assert.Equal(t, 1, market.LookupStockCalls)
	})

	t.Run("no provider configured", func(t *testing.T) {
		_, err := NewImportUsecase(nil, &mockStockRepository{}).ImportAll(ctx, []string{"AAPL"})
		assert.ErrorIs(t, err, ErrMarketDataUnavailable)
	})
}
