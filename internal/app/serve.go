package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"productdesc/internal/catalog"
	"productdesc/internal/preview"
	"productdesc/internal/service"
)

// Serve runs the live preview server for the document with the given id
// until ctx is cancelled. Autosave, the external-change watcher and the
// template directory watcher run alongside it.
func (a *App) Serve(ctx context.Context, documentID string) error {
	if documentID != "" {
		if _, err := a.documents.Open(ctx, documentID); err != nil {
			return err
		}
	}

	srv := preview.New(a.store, preview.Options{
		Host:           a.cfg.Preview.Host,
		Port:           a.cfg.Preview.Port,
		Highlight:      a.cfg.Preview.Highlight,
		AllowedOrigins: a.cfg.Preview.AllowedOrigins,
	}, a.logger.Named("preview"))
	a.store.Subscribe(srv)

	if s := a.cfg.Autosave.Schedule; s != "" {
		saver := newAutosaver(a.documents, a.logger.Named("autosave"))
		if err := saver.Start(ctx, s); err != nil {
			return err
		}
		defer saver.Stop()
	}

	watcher := newDocWatcher(ctx, a.documents, a.logger.Named("watcher"))
	watcher.Start()
	defer watcher.Stop()

	if a.cfg.Templates.Watch && a.catalog.Dir() != "" {
		tw, err := catalog.Watch(a.catalog, nil, a.logger.Named("catalog"))
		if err != nil {
			a.logger.Warn("template directory not watched", zap.Error(err))
		} else {
			defer tw.Close()
		}
	}

	err := srv.ListenAndServe(ctx)
	a.flush()
	return err
}

// flush saves pending edits on the way out.
func (a *App) flush() {
	ctx := context.Background()
	a.documents.WaitIdle(ctx)
	if _, err := a.documents.SaveIfChanged(ctx); err != nil && !errors.Is(err, service.ErrSaveInProgress) {
		a.logger.Error("final save failed", zap.Error(err))
	}
}
