// seed administra la base de datos de ABS: migraciones, catálogo inicial y cuenta admin.
//
// Uso:
//
//	go run ./cmd/seed migrate
//	go run ./cmd/seed catalog docs/catalog.example.yaml [--latin1]
//	go run ./cmd/seed admin --email admin@abs.co --password ******** --name "Admin"
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/abs-rental-api/internal/infrastructure/postgres"
	"github.com/jhoicas/abs-rental-api/pkg/config"
	"github.com/jhoicas/abs-rental-api/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Migraciones y datos iniciales de ABS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(migrateCmd(), catalogCmd(), adminCmd())
	return cmd
}

// connect abre el pool y aplica migraciones pendientes; todos los subcomandos las necesitan.
func connect(ctx context.Context) (*pgxpool.Pool, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pool, log, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, log, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			v, err := postgres.MigrationVersion(ctx, pool)
			if err != nil {
				return err
			}
			log.Info().Int64("version", v).Msg("esquema al día")
			return nil
		},
	}
}
