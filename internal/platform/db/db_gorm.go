// Package db opens the relational store and owns its schema.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolio_backend/internal/platform/config"
)

const (
	// retryInterval is the pause between connection attempts.
	retryInterval = 3 * time.Second
	// pgUniqueViolation is the SQLSTATE for unique_violation.
	pgUniqueViolation = "23505"
)

// Opener opens a gorm connection for a DSN. It is injectable for tests.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN returns the connection string for the configured driver.
// For postgres it is a keyword/value DSN that both gorm and the pgx stdlib driver accept.
func BuildDSN(cfg config.DBConfig) string {
	if cfg.Driver == "sqlite" {
		return cfg.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// GormConfig returns the gorm configuration shared by the server, the CLI and adapter tests.
// Foreign keys are declared in the SQL migrations, so AutoMigrate does not create them.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	}
}

// OpenerFor returns the Opener matching the configured driver.
func OpenerFor(driver string) Opener {
	if driver == "sqlite" {
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), GormConfig())
		}
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), GormConfig())
	}
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		log.Warn().Err(err).Msg("db connect failed, retrying")
		time.Sleep(retryInterval)
	}
}

// Open connects to the configured store and, if requested, migrates the schema.
func Open(ctx context.Context, cfg config.DBConfig) (*gorm.DB, error) {
	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, OpenerFor(cfg.Driver))
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := Migrate(ctx, db, cfg); err != nil {
			return nil, err
		}
	}
	log.Info().Str("driver", cfg.Driver).Msg("database connected")
	return db, nil
}

// postgresUp applies the SQL migrations; replaced in tests.
var postgresUp = func(ctx context.Context, dsn string) error {
	return NewMigrator(dsn).Up(ctx)
}

// Migrate brings the schema up to date. Postgres runs the goose SQL migrations,
// which own the foreign keys; sqlite uses AutoMigrate. db is only read for sqlite.
func Migrate(ctx context.Context, db *gorm.DB, cfg config.DBConfig) error {
	if cfg.Driver == "sqlite" {
		if err := AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		return nil
	}
	return postgresUp(ctx, BuildDSN(cfg))
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// gorm translates known driver errors to gorm.ErrDuplicatedKey; the pgconn
// check covers statements executed outside gorm's translator.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
