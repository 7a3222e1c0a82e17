package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/forest-inventory/internal/config"
	"github.com/phrazzld/forest-inventory/internal/domain/analysis"
	"github.com/phrazzld/forest-inventory/internal/service"
	"github.com/phrazzld/forest-inventory/internal/store"
	"github.com/phrazzld/forest-inventory/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	datasets         store.DatasetStore
	analyzer         analysis.Service
	inventoryService service.InventoryService

	registry *prometheus.Registry
	sweeper  *task.Sweeper
}

// newApplication creates a new application instance with all dependencies initialized.
// For the postgres backend it opens the database and applies migrations.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var err error
	app.db, app.datasets, err = setupDatasetStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	params, err := cfg.Analysis.Params()
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("invalid analysis configuration: %w", err)
	}
	app.analyzer, err = analysis.NewServiceWithParams(params, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}
	logger.Info("analysis service initialized",
		slog.Float64("confidence_level", params.ConfidenceLevel),
		slog.Float64("diameter_class_width", params.DiameterClassWidth),
		slog.String("growth_model", params.DefaultGrowthModel.Name()))

	app.inventoryService, err = service.NewInventoryService(
		app.datasets,
		app.analyzer,
		cfg.Store.DatasetTTL,
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create inventory service: %w", err)
	}

	app.sweeper = task.NewSweeper(app.inventoryService, task.SweeperConfig{
		Interval: cfg.Store.SweepInterval,
	}, logger)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	if app.config.Store.DatasetTTL > 0 {
		if err := app.sweeper.Start(ctx); err != nil {
			return fmt.Errorf("failed to start sweeper: %w", err)
		}
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
