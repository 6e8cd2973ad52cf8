// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"portfolio_backend/internal/app/router"
	authadapters "portfolio_backend/internal/feature/auth/adapters"
	authhandler "portfolio_backend/internal/feature/auth/transport/handler"
	authusecase "portfolio_backend/internal/feature/auth/usecase"
	commentadapters "portfolio_backend/internal/feature/comments/adapters"
	commenthandler "portfolio_backend/internal/feature/comments/transport/handler"
	commentusecase "portfolio_backend/internal/feature/comments/usecase"
	portfolioadapters "portfolio_backend/internal/feature/portfolio/adapters"
	portfoliohandler "portfolio_backend/internal/feature/portfolio/transport/handler"
	portfoliousecase "portfolio_backend/internal/feature/portfolio/usecase"
	stockadapters "portfolio_backend/internal/feature/stocks/adapters"
	stockhandler "portfolio_backend/internal/feature/stocks/transport/handler"
	stockusecase "portfolio_backend/internal/feature/stocks/usecase"
	"portfolio_backend/internal/platform/cache"
	"portfolio_backend/internal/platform/config"
	"portfolio_backend/internal/platform/externalapi/fmp"
	infrahttp "portfolio_backend/internal/platform/http"
	platformhandler "portfolio_backend/internal/platform/http/handler"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

// App holds the usecases shared by the HTTP server and the admin CLI.
type App struct {
	Auth      *authusecase.AuthUsecase
	Stocks    *stockusecase.StockUsecase
	Import    *stockusecase.ImportUsecase
	Comments  *commentusecase.CommentUsecase
	Portfolio *portfoliousecase.PortfolioUsecase

	cfg *config.Config
	db  *gorm.DB
	rdb *redis.Client
}

// NewApp assembles repositories and usecases. rdb may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	// Repository
	userRepo := authadapters.NewUserRepository(db)
	stockRepo := NewStockRepository(db, rdb)
	commentRepo := commentadapters.NewCommentRepository(db)
	portfolioRepo := portfolioadapters.NewPortfolioRepository(db)
	market := NewMarket(cfg.FMP)

	// Usecase
	return &App{
		Auth:      authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.Expiration)),
		Stocks:    stockusecase.NewStockUsecase(stockRepo),
		Import:    stockusecase.NewImportUsecase(market, stockRepo),
		Comments:  commentusecase.NewCommentUsecase(commentRepo, commentadapters.NewStockChecker(db)),
		Portfolio: portfoliousecase.NewPortfolioUsecase(portfolioRepo, stockRepo, market),
		cfg:       cfg,
		db:        db,
		rdb:       rdb,
	}
}

// Router builds the HTTP handlers and mounts them.
func (a *App) Router() *gin.Engine {
	return router.NewRouter(router.Handlers{
		Auth:      authhandler.NewAuthHandler(a.Auth),
		Stocks:    stockhandler.NewStockHandler(a.Stocks),
		Comments:  commenthandler.NewCommentHandler(a.Comments),
		Portfolio: portfoliohandler.NewPortfolioHandler(a.Portfolio),
		Health:    platformhandler.NewHealthHandler(HealthChecks(a.db, a.rdb)),
	}, router.Options{
		JWTSecret:      a.cfg.JWT.Secret,
		Resolve:        IdentityResolver(a.Auth),
		AllowedOrigins: a.cfg.AllowedOrigins,
	})
}

// NewStockRepository returns the gorm stock repository, wrapped with the
// Redis cache when a client is available.
func NewStockRepository(db *gorm.DB, rdb *redis.Client) stockusecase.StockRepository {
	repo := stockadapters.NewStockRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingStockRepository(rdb, 0, repo, "stocks")
}

// NewMarket creates a memoized FMP client, or nil when no API key is configured.
// The nil is returned untyped so callers can compare the interface with nil.
func NewMarket(cfg config.FMPConfig) stockusecase.MarketRepository {
	fcfg := fmp.FromAppConfig(cfg)
	if !fcfg.Enabled() {
		return nil
	}
	httpClient := infrahttp.NewHTTPClient(fcfg.Timeout)
	return cache.NewMemoizedMarketLookup(fmp.NewFMPMarket(fcfg, httpClient), cache.DefaultFoundTTL, cache.DefaultNotFoundTTL)
}

// IdentityResolver adapts the auth usecase to the JWT middleware.
func IdentityResolver(auth *authusecase.AuthUsecase) jwtmw.IdentityResolver {
	return func(ctx context.Context, username string) (jwtmw.Identity, error) {
		u, err := auth.ResolveIdentity(ctx, username)
		if err != nil {
			if errors.Is(err, authusecase.ErrUserNotFound) {
				return jwtmw.Identity{}, jwtmw.ErrUnknownIdentity
			}
			return jwtmw.Identity{}, err
		}
		return jwtmw.Identity{UserID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}, nil
	}
}

// HealthChecks returns the readiness probes for the configured backends.
func HealthChecks(db *gorm.DB, rdb *redis.Client) map[string]platformhandler.Check {
	checks := map[string]platformhandler.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
