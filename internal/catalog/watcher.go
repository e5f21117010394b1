package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a Catalog when YAML files in its directory change.
type Watcher struct {
	catalog  *Catalog
	watcher  *fsnotify.Watcher
	onReload func()
	logger   *zap.Logger
	done     chan struct{}
}

// Watch starts watching c.Dir(). onReload, if set, runs after each reload.
func Watch(c *Catalog, onReload func(), logger *zap.Logger) (*Watcher, error) {
	if c.Dir() == "" {
		return nil, fmt.Errorf("catalog has no template directory")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(c.Dir()); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", c.Dir(), err)
	}

	w := &Watcher{
		catalog:  c,
		watcher:  fw,
		onReload: onReload,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// Close stops the watcher and waits for its loop to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isTemplateFile(filepath.Base(event.Name)) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := w.catalog.Reload(); err != nil {
				w.logger.Warn("template reload", zap.String("file", event.Name), zap.Error(err))
			}
			if w.onReload != nil {
				w.onReload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("template watcher error", zap.Error(err))
		}
	}
}
