// Package router wires HTTP routes to feature handlers.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authentity "portfolio_backend/internal/feature/auth/domain/entity"
	authhandler "portfolio_backend/internal/feature/auth/transport/handler"
	commenthandler "portfolio_backend/internal/feature/comments/transport/handler"
	portfoliohandler "portfolio_backend/internal/feature/portfolio/transport/handler"
	stockhandler "portfolio_backend/internal/feature/stocks/transport/handler"
	platformhandler "portfolio_backend/internal/platform/http/handler"
	"portfolio_backend/internal/platform/http/middleware"
	jwtmw "portfolio_backend/internal/platform/jwt"
	"portfolio_backend/internal/platform/metrics"
	"portfolio_backend/internal/shared/apierror"
)

// Handlers groups the feature handlers mounted by NewRouter.
type Handlers struct {
	Auth      *authhandler.AuthHandler
	Stocks    *stockhandler.StockHandler
	Comments  *commenthandler.CommentHandler
	Portfolio *portfoliohandler.PortfolioHandler
	Health    *platformhandler.HealthHandler
}

// Options configures authentication and CORS.
type Options struct {
	JWTSecret      string
	Resolve        jwtmw.IdentityResolver
	AllowedOrigins []string
}

// NewRouter builds the gin engine with the middleware chain and every route.
func NewRouter(h Handlers, opts Options) *gin.Engine {
	apierror.RegisterJSONTagNames()

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		metrics.Middleware(),
	)
	// cors.New panics when no origin is allowed
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 認証不要
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.GET("/readyz", h.Health.Ready)
	r.GET("/metrics", metrics.Handler())

	account := r.Group("/api/account")
	{
		account.POST("/register", h.Auth.Register)
		account.POST("/login", h.Auth.Login)
	}

	// 認証必須のルート
	api := r.Group("/api")
	api.Use(jwtmw.AuthRequired(opts.JWTSecret, opts.Resolve))
	{
		adminOnly := jwtmw.RequireRole(authentity.RoleAdmin)

		stocks := api.Group("/stock")
		stocks.GET("", h.Stocks.List)
		stocks.GET("/:id", h.Stocks.Get)
		stocks.POST("", adminOnly, h.Stocks.Create)
		stocks.PUT("/:id", adminOnly, h.Stocks.Update)
		stocks.DELETE("/:id", adminOnly, h.Stocks.Delete)

		// POST は stockId、それ以外は comment id を受け取ります
		comments := api.Group("/comment")
		comments.GET("", h.Comments.List)
		comments.GET("/:id", h.Comments.Get)
		comments.POST("/:stockId", h.Comments.Create)
		comments.PUT("/:id", h.Comments.Update)
		comments.DELETE("/:id", h.Comments.Delete)

		portfolio := api.Group("/portfolio")
		portfolio.GET("", h.Portfolio.List)
		portfolio.POST("", h.Portfolio.Add)
		portfolio.DELETE("", h.Portfolio.Remove)
	}

	return r
}
