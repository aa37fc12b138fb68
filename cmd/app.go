package cmd

import (
	"context"
	"fmt"

	"order-sync/core/commerce"
	"order-sync/core/config"
	"order-sync/core/database"
	"order-sync/core/logger"
	"order-sync/core/metrics"
	"order-sync/core/pos"
	"order-sync/core/reconcile"
	"order-sync/core/storage"
	"order-sync/core/utils"
	"order-sync/feature/reconciliation"

	"go.uber.org/zap"
)

// application holds the wired collaborators shared by the commands.
type application struct {
	cache   *reconcile.FileCache
	service *reconciliation.Service
	close   func()
}

// newApplication wires the engine, history and archive from cfg.
// The journal and archive are optional and only wired when enabled.
func newApplication(ctx context.Context, cfg *config.Config, l *zap.Logger) (*application, error) {
	metrics.Register()

	source := pos.NewClient(cfg.POS, utils.NewHTTPClient(cfg.POS.TimeoutSeconds))
	platform := commerce.NewClient(cfg.Commerce, utils.NewHTTPClient(cfg.Commerce.TimeoutSeconds))
	cache := reconcile.NewFileCache(cfg.Sync.CachePath, l)
	driver := reconcile.NewDriver(source, platform, cache, cfg.Sync.Options(), l)

	app := &application{cache: cache, close: func() {}}

	var journal *reconciliation.Journal
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		journal = reconciliation.NewJournal(db)
		if err := journal.Migrate(ctx); err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			app.close = func() { _ = sqlDB.Close() }
		}
		l.Info("Run journal enabled", zap.String("driver", cfg.Database.Driver))
	}

	var archive *reconciliation.Archiver
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		archive = reconciliation.NewArchiver(client, cfg.Storage.Bucket, cfg.Storage.Prefix, l)
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		l.Info("Run archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	app.service = reconciliation.NewService(driver, cache, nil, journal, archive, l)
	return app, nil
}

// loadConfigAndLogger is the common preamble of every command.
func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}
