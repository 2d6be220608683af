package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/hbnb-api/internal/config"
	"github.com/phrazzld/hbnb-api/internal/platform/memory"
	"github.com/phrazzld/hbnb-api/internal/platform/postgres"
	"github.com/phrazzld/hbnb-api/internal/store"
)

// openBackend returns the storage backend selected by cfg.Driver.
func openBackend(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (store.Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage; data is lost on shutdown")
		return memory.New(), nil
	case config.DriverPostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("database connection established")
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*postgres.PgSQL, error) {
	db, err := postgres.New(ctx, postgres.OptionsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
