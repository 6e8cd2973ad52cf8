package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	authentity "portfolio_backend/internal/feature/auth/domain/entity"
	commententity "portfolio_backend/internal/feature/comments/domain/entity"
	portfolioentity "portfolio_backend/internal/feature/portfolio/domain/entity"
	stockentity "portfolio_backend/internal/feature/stocks/domain/entity"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Models lists every persisted entity, in dependency order.
func Models() []any {
	return []any{
		&authentity.User{},
		&stockentity.Stock{},
		&commententity.Comment{},
		&portfolioentity.Portfolio{},
	}
}

// AutoMigrate creates or updates tables from the entity definitions.
// It serves sqlite development databases and tests; postgres uses the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Migrator applies the embedded SQL migrations to a postgres database with goose.
type Migrator struct {
	dsn string
}

// NewMigrator returns a Migrator for the given postgres DSN.
func NewMigrator(dsn string) *Migrator {
	return &Migrator{dsn: dsn}
}

func (m *Migrator) run(ctx context.Context, fn func(ctx context.Context, p *goose.Provider) error) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", m.dsn)
	if err != nil {
		return fmt.Errorf("failed to open DB for migration: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	fsys, err := fs.Sub(migrations, migrationsDir)
	if err != nil {
		return err
	}
	p, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	return fn(ctx, p)
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, func(ctx context.Context, p *goose.Provider) error {
		if _, err := p.Up(ctx); err != nil {
			return fmt.Errorf("failed to up migrations: %w", err)
		}
		return nil
	})
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, func(ctx context.Context, p *goose.Provider) error {
		if _, err := p.Down(ctx); err != nil {
			return fmt.Errorf("failed to down migrations: %w", err)
		}
		return nil
	})
}

// MigrationStatus is one row of Status output.
type MigrationStatus struct {
	Version int64
	Source  string
	Applied bool
}

// Status reports which migrations have been applied.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	var out []MigrationStatus
	err := m.run(ctx, func(ctx context.Context, p *goose.Provider) error {
		statuses, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		for _, s := range statuses {
			out = append(out, MigrationStatus{
				Version: s.Source.Version,
				Source:  s.Source.Path,
				Applied: s.State == goose.StateApplied,
			})
		}
		return nil
	})
	return out, err
}

// MigrationFiles returns the embedded migration file names.
func MigrationFiles() ([]string, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
