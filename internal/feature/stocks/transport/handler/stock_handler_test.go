package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "portfolio_backend/internal/feature/auth/domain/entity"
	commententity "portfolio_backend/internal/feature/comments/domain/entity"
	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/domain/query"
	"portfolio_backend/internal/feature/stocks/transport/http/dto"
	"portfolio_backend/internal/feature/stocks/usecase"
	"portfolio_backend/internal/shared/apierror"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	apierror.RegisterJSONTagNames()
	os.Exit(m.Run())
}

// mockStockUsecase is a mock implementation of the StockUsecase interface.
type mockStockUsecase struct {
	ListFunc   func(ctx context.Context, q query.StockQuery) ([]entity.Stock, error)
	GetFunc    func(ctx context.Context, id uint) (*entity.Stock, error)
	CreateFunc func(ctx context.Context, s *entity.Stock) error
	UpdateFunc func(ctx context.Context, id uint, in entity.Stock) (*entity.Stock, error)
	DeleteFunc func(ctx context.Context, id uint) (*entity.Stock, error)
}

func (m *mockStockUsecase) List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockStockUsecase) Get(ctx context.Context, id uint) (*entity.Stock, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, usecase.ErrStockNotFound
}

func (m *mockStockUsecase) Create(ctx context.Context, s *entity.Stock) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	s.ID = 1
	return nil
}

func (m *mockStockUsecase) Update(ctx context.Context, id uint, in entity.Stock) (*entity.Stock, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, in)
	}
	return nil, usecase.ErrStockNotFound
}

func (m *mockStockUsecase) Delete(ctx context.Context, id uint) (*entity.Stock, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil, usecase.ErrStockNotFound
}

func newRouter(uc StockUsecase) *gin.Engine {
	h := NewStockHandler(uc)
	r := gin.New()
	r.GET("/api/stock", h.List)
	r.GET("/api/stock/:id", h.Get)
	r.POST("/api/stock", h.Create)
	r.PUT("/api/stock/:id", h.Update)
	r.DELETE("/api/stock/:id", h.Delete)
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStockHandler_List(t *testing.T) {
	t.Run("binds query parameters and defaults", func(t *testing.T) {
		var got query.StockQuery
		uc := &mockStockUsecase{ListFunc: func(ctx context.Context, q query.StockQuery) ([]entity.Stock, error) {
			got = q
			return []entity.Stock{{ID: 1, Symbol: "AAPL"}}, nil
		}}

		w := do(newRouter(uc), http.MethodGet, "/api/stock?symbol=AA&companyName=Apple&sortBy=Purchase&sortDescending=true", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, query.StockQuery{
			Symbol: "AA", CompanyName: "Apple", SortBy: query.SortPurchase, SortDescending: true,
			PageNumber: 1, PageSize: 20,
		}, got)

		var body []dto.StockRes
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "AAPL", body[0].Symbol)
		assert.NotNil(t, body[0].Comments)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		w := do(newRouter(&mockStockUsecase{}), http.MethodGet, "/api/stock?pageNumber=99", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	for _, path := range []string{"/api/stock?pageSize=0", "/api/stock?pageNumber=0", "/api/stock?pageNumber=-2", "/api/stock?pageSize=abc"} {
		t.Run("rejects "+path, func(t *testing.T) {
			called := false
			uc := &mockStockUsecase{ListFunc: func(ctx context.Context, q query.StockQuery) ([]entity.Stock, error) {
				called = true
				return nil, nil
			}}

			w := do(newRouter(uc), http.MethodGet, path, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, called)
		})
	}
}

func TestStockHandler_Get(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	uc := &mockStockUsecase{GetFunc: func(ctx context.Context, id uint) (*entity.Stock, error) {
		if id != 3 {
			return nil, usecase.ErrStockNotFound
		}
		return &entity.Stock{
			ID: 3, Symbol: "TSLA", CompanyName: "Tesla", Purchase: 250, Industry: "Auto", MarketCap: 10,
			Comments: []commententity.Comment{{
				ID: 9, Title: "Bullish", Content: "to the moon", CreatedOn: created, StockID: 3,
				AppUser: &authentity.User{Username: "alice"},
			}},
		}, nil
	}}
	r := newRouter(uc)

	w := do(r, http.MethodGet, "/api/stock/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"id": 3, "symbol": "TSLA", "companyName": "Tesla", "purchase": 250, "lastDiv": 0,
		"industry": "Auto", "marketCap": 10,
		"comments": [{"id": 9, "title": "Bullish", "content": "to the moon",
			"createdOn": "2024-01-02T03:04:05Z", "createdBy": "alice", "stockId": 3}]
	}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/stock/4", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Stock not found!"}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/stock/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStockHandler_Create(t *testing.T) {
	valid := gin.H{"symbol": "NVDA", "companyName": "NVIDIA", "purchase": 120.5, "lastDiv": 0.01, "industry": "Chips", "marketCap": 1000}

	tests := []struct {
		name       string
		body       gin.H
		createFunc func(ctx context.Context, s *entity.Stock) error
		wantStatus int
	}{
		{"created", valid, nil, http.StatusCreated},
		{"missing symbol", gin.H{"companyName": "X", "industry": "Y"}, nil, http.StatusBadRequest},
		{"symbol too long", gin.H{"symbol": "ABCDEFGHIJK", "companyName": "X", "industry": "Y"}, nil, http.StatusBadRequest},
		{"negative purchase", gin.H{"symbol": "X", "companyName": "X", "industry": "Y", "purchase": -1}, nil, http.StatusBadRequest},
		{"duplicate symbol", valid, func(ctx context.Context, s *entity.Stock) error { return usecase.ErrSymbolAlreadyExists }, http.StatusConflict},
		{"store failure", valid, func(ctx context.Context, s *entity.Stock) error { return errors.New("boom") }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newRouter(&mockStockUsecase{CreateFunc: tt.createFunc}), http.MethodPost, "/api/stock", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestStockHandler_UpdateAndDelete(t *testing.T) {
	uc := &mockStockUsecase{
		UpdateFunc: func(ctx context.Context, id uint, in entity.Stock) (*entity.Stock, error) {
			in.ID = id
			return &in, nil
		},
		DeleteFunc: func(ctx context.Context, id uint) (*entity.Stock, error) {
			return &entity.Stock{ID: id, Symbol: "GONE"}, nil
		},
	}
	r := newRouter(uc)

	w := do(r, http.MethodPut, "/api/stock/5", gin.H{"symbol": "NEW", "companyName": "New", "industry": "Tech", "purchase": 1})
	require.Equal(t, http.StatusOK, w.Code)
	var updated dto.StockRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, uint(5), updated.ID)
	assert.Equal(t, "NEW", updated.Symbol)

	w = do(r, http.MethodDelete, "/api/stock/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"symbol":"GONE"`)

	w = do(newRouter(&mockStockUsecase{}), http.MethodDelete, "/api/stock/5", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
