package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"productdesc/internal/service"
)

// autosaver periodically persists the active document when it has
// unsaved edits.
type autosaver struct {
	docs   *service.DocumentService
	logger *zap.Logger
	cron   *cron.Cron
}

func newAutosaver(docs *service.DocumentService, logger *zap.Logger) *autosaver {
	return &autosaver{docs: docs, logger: logger}
}

// Start schedules the save job with a cron spec such as "@every 30s".
func (a *autosaver) Start(ctx context.Context, schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { a.run(ctx) }); err != nil {
		return fmt.Errorf("autosave: invalid schedule %q: %w", schedule, err)
	}
	c.Start()
	a.cron = c
	a.logger.Info("autosave scheduled", zap.String("schedule", schedule))
	return nil
}

func (a *autosaver) run(ctx context.Context) {
	saved, err := a.docs.SaveIfChanged(ctx)
	if err != nil {
		a.logger.Error("autosave failed", zap.Error(err))
		return
	}
	if saved {
		a.logger.Debug("autosaved")
	}
}

// Stop cancels the schedule and waits for a running save to finish.
func (a *autosaver) Stop() {
	if a.cron == nil {
		return
	}
	<-a.cron.Stop().Done()
	a.cron = nil
}
