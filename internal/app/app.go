package app

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"productdesc/internal/catalog"
	"productdesc/internal/config"
	"productdesc/internal/domain"
	"productdesc/internal/service"
	"productdesc/internal/storage"
)

// repository is what the app needs from a storage backend.
type repository interface {
	domain.DocumentRepository
	domain.TemplateRepository
}

// App wires storage, the template catalog and the edit session together.
// The CLI commands, the preview server and the MCP server all run on it.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	repo      repository
	store     *service.DocumentStore
	documents *service.DocumentService
	catalog   *catalog.Catalog

	closers []func(context.Context) error
}

// New opens the configured storage backend and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{cfg: cfg, logger: logger}

	repo, closer, err := openRepository(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.repo = repo
	a.closers = append(a.closers, closer)

	cat, err := catalog.New(cfg.Templates.Dir, repo, logger.Named("catalog"))
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("load templates: %w", err)
	}
	a.catalog = cat

	a.store = service.NewDocumentStore(nil, service.WithLogger(logger.Named("store")))
	a.documents = service.NewDocumentService(repo, a.store, logger.Named("documents"))
	return a, nil
}

// Documents returns the document service of the session.
func (a *App) Documents() *service.DocumentService { return a.documents }

// Store returns the edit session.
func (a *App) Store() *service.DocumentStore { return a.store }

// Catalog returns the template catalog.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// Close releases every resource New acquired.
func (a *App) Close(ctx context.Context) error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i](ctx))
	}
	a.closers = nil
	return err
}

// openRepository connects to the backend selected by sc.Driver.
func openRepository(ctx context.Context, sc config.StorageConfig) (repository, func(context.Context) error, error) {
	if sc.Driver == "mongo" {
		repo, err := storage.OpenMongo(ctx, sc.MongoURI, sc.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	}

	dsn, err := storageDSN(sc)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, sc.Driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewSQLRepository(db), func(context.Context) error { return db.Close() }, nil
}

// storageDSN returns the configured DSN, or builds one from the discrete
// connection settings. SQLite falls back to the per-user database file.
func storageDSN(sc config.StorageConfig) (string, error) {
	if sc.DSN != "" {
		return config.ExpandHome(sc.DSN), nil
	}
	if sc.Driver == string(storage.DialectSQLite) {
		return config.DefaultSQLitePath(), nil
	}
	return storage.BuildDSN(sc.Driver, storage.ConnParams{
		Host:     sc.Host,
		Port:     sc.Port,
		User:     sc.User,
		Password: sc.Password,
		Database: sc.Database,
		SSLMode:  sc.SSLMode,
	})
}
