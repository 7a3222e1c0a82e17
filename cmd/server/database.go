package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/forest-inventory/internal/config"
	"github.com/phrazzld/forest-inventory/internal/platform/memory"
	"github.com/phrazzld/forest-inventory/internal/platform/postgres"
	"github.com/phrazzld/forest-inventory/internal/store"
)

// setupDatasetStore builds the configured dataset store. The returned *sql.DB
// is nil for the memory backend.
func setupDatasetStore(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*sql.DB, store.DatasetStore, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		datasets, err := postgres.NewPostgresDatasetStore(db, logger)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("using postgres dataset store")
		return db, datasets, nil

	case config.BackendMemory:
		logger.Info("using in-memory dataset store")
		return nil, memory.NewDatasetStore(logger), nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
