package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reloader republishes the ticket snapshot.
type Reloader interface {
	Reload(ctx context.Context) error
}

// RefreshWorker reloads the ticket snapshot on a cron schedule.
type RefreshWorker struct {
	cron     *cron.Cron
	schedule string
	logger   *zap.Logger
}

// StartRefreshWorker schedules reloads using a standard 5-field cron
// expression or a descriptor such as "@every 5m". An empty schedule
// disables refresh and returns a nil worker.
func StartRefreshWorker(schedule string, reloader Reloader, logger *zap.Logger) (*RefreshWorker, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		logger.Info("dataset refresh disabled")
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		if err := reloader.Reload(context.Background()); err != nil {
			logger.Warn("scheduled dataset refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	c.Start()
	logger.Info("dataset refresh scheduled", zap.String("schedule", schedule))
	return &RefreshWorker{cron: c, schedule: schedule, logger: logger}, nil
}

// Stop halts scheduling and waits for a running reload to finish.
func (w *RefreshWorker) Stop() {
	if w == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.logger.Info("dataset refresh stopped")
}
