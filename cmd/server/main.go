// Package main implements the entry point for the forest inventory API
// server, which stores uploaded inventories and serves stand analyses.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/forest-inventory/internal/config"
	"github.com/phrazzld/forest-inventory/internal/platform/logger"
)

// main is the entry point for the forest inventory server.
func main() {
	if err := run(context.Background(), os.Getenv("FOREST_CONFIG_FILE")); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run loads configuration, wires the application and serves until shutdown.
func run(ctx context.Context, configFile string) error {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("store_backend", cfg.Store.Backend),
		slog.Duration("dataset_ttl", cfg.Store.DatasetTTL))

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
