package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"productdesc/internal/service"
)

// docWatcher polls the repository for changes to the active document,
// detecting external modifications (e.g. from an MCP standalone process)
// and reloading them into the session so the preview refreshes.
type docWatcher struct {
	ctx      context.Context
	docs     *service.DocumentService
	logger   *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	done     chan struct{}
}

func newDocWatcher(ctx context.Context, docs *service.DocumentService, logger *zap.Logger) *docWatcher {
	return &docWatcher{ctx: ctx, docs: docs, logger: logger, interval: 2 * time.Second}
}

// Start begins the polling loop.
func (w *docWatcher) Start() {
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop.
func (w *docWatcher) Stop() {
	if w.stopCh == nil {
		return
	}
	close(w.stopCh)
	<-w.done
	w.stopCh = nil
}

func (w *docWatcher) pollLoop() {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *docWatcher) check() {
	reloaded, err := w.docs.ReloadIfNewer(w.ctx)
	if err != nil {
		w.logger.Warn("check stored document", zap.Error(err))
		return
	}
	if reloaded {
		d, _ := w.docs.Store().Document()
		w.logger.Info("reloaded document changed by another process", zap.String("documentId", d.ID))
	}
}
