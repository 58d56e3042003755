package main

import (
	"context"
	"database/sql"
	"fmt"

	"partnership-teams/config"
	"partnership-teams/pkg/logger"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dirFlag string

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the database schema",
	Long:          `Apply, roll back or inspect the goose migrations against the configured database.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB, dir string) error {
			return goose.UpContext(ctx, db, dir)
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB, dir string) error {
			return goose.DownContext(ctx, db, dir)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the status of every migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB, dir string) error {
			return goose.StatusContext(ctx, db, dir)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "migrations directory (default postgres.migrations_dir)")
	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

func withDB(ctx context.Context, fn func(ctx context.Context, db *sql.DB, dir string) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	dir := dirFlag
	if dir == "" {
		dir = cfg.Postgres.MigrationsDir
	}
	log = log.Named("migrate").With(zap.String("dir", dir), zap.String("source", string(cfg.Connection.Source())))

	db, err := sql.Open("postgres", cfg.Connection.DSN())
	if err != nil {
		return fmt.Errorf("open sql: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Postgres.MigrateTimeout)
	defer cancel()

	log.Infow("migrate ready")
	if err := fn(ctx, db, dir); err != nil {
		log.Errorw("migration failed", "error", err)
		return err
	}
	log.Infow("migration finished")
	return nil
}
