package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/datacatalog/internal/catalog"
	"github.com/JonMunkholm/datacatalog/internal/config"
	"github.com/JonMunkholm/datacatalog/internal/core"
	"github.com/JonMunkholm/datacatalog/internal/database"
	"github.com/JonMunkholm/datacatalog/internal/insight"
	"github.com/JonMunkholm/datacatalog/internal/logging"
)

// app holds the opened stores for one command invocation.
type app struct {
	cfg     *config.Config
	catalog *sql.DB
	pool    *pgxpool.Pool
	service *core.Service
}

// openOptions selects which backends a command needs.
type openOptions struct {
	// memoryInsights replaces PostgreSQL with an in-process store.
	memoryInsights bool
}

// openApp loads configuration, sets up logging and opens both stores.
func openApp(ctx context.Context, opts openOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	a := &app{cfg: cfg}

	a.catalog, err = database.OpenCatalog(ctx, cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	slog.Info("catalog opened", "path", cfg.Catalog.Path)

	var insights core.InsightStore
	if opts.memoryInsights {
		insights = insight.NewMemoryStore()
	} else {
		a.pool, err = database.Connect(ctx, cfg.Database)
		if err != nil {
			a.Close()
			return nil, err
		}
		if cfg.Database.Migrate {
			if err := database.RunMigrations(ctx, a.pool); err != nil {
				a.Close()
				return nil, err
			}
		}
		insights = insight.NewStore(a.pool)
	}

	a.service = core.NewService(
		catalog.NewStore(a.catalog),
		insights,
		insight.NewImageStore(cfg.Upload.Dir, cfg.Upload.MaxImageSize),
		core.Options{
			BackupDir:            cfg.Catalog.BackupDir,
			ImportTimeout:        cfg.Upload.Timeout,
			MaxConcurrentImports: cfg.Upload.MaxConcurrent,
			MaxWaitTime:          cfg.Upload.MaxWaitTime,
		},
	)
	return a, nil
}

// Close releases the stores.
func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.catalog != nil {
		if err := a.catalog.Close(); err != nil {
			slog.Warn("close catalog", "error", err)
		}
	}
}
