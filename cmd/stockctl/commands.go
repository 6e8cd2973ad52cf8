package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"portfolio_backend/internal/app/di"
	authentity "portfolio_backend/internal/feature/auth/domain/entity"
	"portfolio_backend/internal/platform/config"
	"portfolio_backend/internal/platform/db"
	"portfolio_backend/internal/platform/logger"
)

// configLoader loads configuration; tests substitute a fixed environment.
type configLoader func(ctx context.Context) (*config.Config, error)

// cli carries state shared by the subcommands.
type cli struct {
	load configLoader
	cfg  *config.Config
}

func newRootCommand(load configLoader) *cobra.Command {
	c := &cli{load: load}

	root := &cobra.Command{
		Use:           "stockctl",
		Short:         "Portfolio API administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Output: cmd.ErrOrStderr()})
			c.cfg = cfg
			return nil
		},
	}

	root.AddCommand(c.migrateCommand(), c.importCommand(), c.promoteCommand())
	return root
}

func (c *cli) openDB(ctx context.Context) (*gorm.DB, error) {
	cfg := c.cfg.DB
	// Schema changes go through the migrate command only
	cfg.RunMigrations = false
	return db.Open(ctx, cfg)
}

func (c *cli) migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if c.cfg.DB.Driver == "sqlite" {
					gdb, err := c.openDB(cmd.Context())
					if err != nil {
						return err
					}
					if err := db.Migrate(cmd.Context(), gdb, c.cfg.DB); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "sqlite schema is up to date")
					return nil
				}
				if err := db.Migrate(cmd.Context(), nil, c.cfg.DB); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if c.cfg.DB.Driver == "sqlite" {
					return errors.New("down is not supported for sqlite; delete the database file instead")
				}
				if err := db.NewMigrator(db.BuildDSN(c.cfg.DB)).Down(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "rolled back one migration")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if c.cfg.DB.Driver == "sqlite" {
					files, err := db.MigrationFiles()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "sqlite uses AutoMigrate; postgres migrations: %s\n", strings.Join(files, ", "))
					return nil
				}
				statuses, err := db.NewMigrator(db.BuildDSN(c.cfg.DB)).Status(cmd.Context())
				if err != nil {
					return err
				}
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%05d  %-8s %s\n", s.Version, state, s.Source)
				}
				return nil
			},
		},
	)
	return cmd
}

func (c *cli) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import SYMBOL...",
		Short: "Look up symbols on FMP and insert or overwrite them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := c.openDB(cmd.Context())
			if err != nil {
				return err
			}
			app := di.NewApp(c.cfg, gdb, nil)

			results, err := app.Import.ImportAll(cmd.Context(), args)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%-8s FAILED  %v\n", r.Symbol, r.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s ok      %s (id %d)\n", r.Stock.Symbol, r.Stock.CompanyName, r.Stock.ID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d\n", len(results)-failed, len(results))
			return nil
		},
	}
}

func (c *cli) promoteCommand() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "promote USERNAME",
		Short: "Set a user's role (Admin by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := c.openDB(cmd.Context())
			if err != nil {
				return err
			}
			app := di.NewApp(c.cfg, gdb, nil)

			u, err := app.Auth.SetRole(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Username, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", authentity.RoleAdmin, "role to assign (User or Admin)")
	return cmd
}
