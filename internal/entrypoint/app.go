package entrypoint

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/mrlokans/curriculum/internal/assets"
	"github.com/mrlokans/curriculum/internal/config"
	"github.com/mrlokans/curriculum/internal/database"
	"github.com/mrlokans/curriculum/internal/database/content"
	"github.com/mrlokans/curriculum/internal/database/runs"
	"github.com/mrlokans/curriculum/internal/logger"
	"github.com/mrlokans/curriculum/internal/services"
)

// App holds the components shared by the CLI import command and the server.
type App struct {
	DB      *database.Database
	Content *content.Repository
	Runs    *runs.Repository
	Assets  assets.Store
	Imports *services.ImportService

	closers []func() error
}

type openOptions struct {
	skipAssets bool
}

// OpenOption adjusts what Open builds.
type OpenOption func(*openOptions)

// WithoutAssets skips the configured asset backend. Dry runs never copy
// assets, so they do not need bucket credentials.
func WithoutAssets() OpenOption {
	return func(o *openOptions) { o.skipAssets = true }
}

// Open connects the content store and builds the import service.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...OpenOption) (*App, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	db, err := database.NewDatabase(cfg.Database, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}
	app := &App{DB: db}
	app.closers = append(app.closers, db.Close)

	var store assets.Store = assets.NopStore{}
	if !o.skipAssets {
		s, closeStore, err := newAssetStore(ctx, cfg.Assets)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		if closeStore != nil {
			app.closers = append(app.closers, closeStore)
		}
		store = s
		log.Info("Asset store initialized", "backend", cfg.Assets.Backend, logger.FieldPath, cfg.Assets.Dir)
	}

	app.Content = content.NewRepository(db.DB)
	app.Runs = runs.NewRepository(db.DB)
	app.Assets = store
	app.Imports = services.NewImportService(app.Content, app.Runs, store, cfg, log)
	return app, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
	}
	a.closers = nil
	return errs
}

func newAssetStore(ctx context.Context, cfg config.Assets) (assets.Store, func() error, error) {
	switch cfg.Backend {
	case config.AssetBackendLocal, "":
		return assets.NewLocalStore(), nil, nil
	case config.AssetBackendGCS:
		store, err := assets.NewGCSStore(ctx, cfg.Bucket)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to initialize asset store")
		}
		return store, store.Close, nil
	default:
		return nil, nil, errors.Newf("unsupported asset backend %q", cfg.Backend)
	}
}
