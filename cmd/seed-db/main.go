// Command seed-db applies the embedded schema and loads the demo dataset.
// Meant for local development and demos; the API server can do the same at
// startup with MARKET_MIGRATE_ON_START / MARKET_SEED_ON_START.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"

	"github.com/xenking/marketplace-api/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		schemaOnly  bool
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.BoolVar(&schemaOnly, "schema-only", false, "apply the schema without demo data")
	flag.Parse()

	_ = godotenv.Load()

	if databaseURL == "" {
		databaseURL = os.Getenv("MARKET_DATABASE_URL")
	}
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url, MARKET_DATABASE_URL, or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, schemaOnly); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string, schemaOnly bool) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("applying schema")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if schemaOnly {
		return nil
	}

	slog.Info("loading demo data")

	if err := postgres.RunSeed(ctx, pool); err != nil {
		return errors.Wrap(err, "load demo data")
	}

	return nil
}
