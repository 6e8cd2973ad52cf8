// Package config loads application configuration from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
)

const (
	// EnvDevelopment enables human-friendly console logging.
	EnvDevelopment = "development"
	// EnvProduction switches to JSON logs.
	EnvProduction = "production"
)

// Config is the root configuration for the server and the admin CLI.
type Config struct {
	Port            string        `env:"PORT, default=8080"`
	Env             string        `env:"ENV, default=development"`
	LogLevel        string        `env:"LOG_LEVEL, default=info"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	JWT   JWTConfig
	DB    DBConfig
	Redis RedisConfig
	FMP   FMPConfig
}

// JWTConfig configures bearer token issuance and verification.
type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	Expiration time.Duration `env:"JWT_EXPIRATION, default=24h"`
}

// DBConfig selects and configures the relational store.
type DBConfig struct {
	Driver         string        `env:"DB_DRIVER, default=postgres"`
	Host           string        `env:"DB_HOST, default=localhost"`
	Port           string        `env:"DB_PORT, default=5432"`
	User           string        `env:"DB_USER, default=postgres"`
	Password       string        `env:"DB_PASSWORD"`
	Name           string        `env:"DB_NAME, default=portfolio"`
	SSLMode        string        `env:"DB_SSLMODE, default=disable"`
	Path           string        `env:"DB_PATH, default=./portfolio.db"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS, default=false"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT, default=60s"`
}

// RedisConfig configures the optional shared cache. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// FMPConfig configures the Financial Modeling Prep client. An empty APIKey disables lookups.
type FMPConfig struct {
	APIKey    string        `env:"FMP_API_KEY"`
	BaseURL   string        `env:"FMP_BASE_URL, default=https://financialmodelingprep.com"`
	Timeout   time.Duration `env:"FMP_TIMEOUT, default=10s"`
	RateLimit int           `env:"FMP_RATE_LIMIT, default=30"`
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load reads a .env file when present, then processes environment variables.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not found; using system environment variables")
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes configuration from the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.JWT.Secret == "" && !c.IsDevelopment() {
		return fmt.Errorf("config: JWT_SECRET is required when ENV is %q", c.Env)
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("config: JWT_EXPIRATION must be positive")
	}
	if c.FMP.RateLimit <= 0 {
		return fmt.Errorf("config: FMP_RATE_LIMIT must be positive")
	}
	return nil
}
