package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/adhistory/internal/notify"
)

// DefaultPurgeInterval is how often RetentionWorker purges without a trigger.
const DefaultPurgeInterval = time.Hour

// Purger deletes expired history. Implemented by Store.
type Purger interface {
	PurgeExpired(ctx context.Context) error
}

// RetentionWorker purges expired history once at start, then on every tick
// and whenever the browser goes to the background or the user goes idle.
//
// It is a notify.Observer; register it with a notify.Manager to receive
// the triggers.
type RetentionWorker struct {
	notify.BaseObserver

	purger   Purger
	interval time.Duration
	logger   *slog.Logger
	trigger  chan struct{}
}

// NewRetentionWorker creates a worker. A non-positive interval uses
// DefaultPurgeInterval; a nil logger uses slog.Default().
func NewRetentionWorker(p Purger, interval time.Duration, logger *slog.Logger) *RetentionWorker {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionWorker{
		purger:   p,
		interval: interval,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Run purges until ctx is done. Purge failures are logged and retried on
// the next tick. Run returns nil when ctx is cancelled.
func (w *RetentionWorker) Run(ctx context.Context) error {
	w.purge(ctx, "startup")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.purge(ctx, "interval")
		case <-w.trigger:
			w.purge(ctx, "trigger")
		}
	}
}

// Trigger requests a purge. Requests made while one is pending coalesce.
func (w *RetentionWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// OnBrowserDidEnterBackground implements notify.Observer.
func (w *RetentionWorker) OnBrowserDidEnterBackground() {
	w.Trigger()
}

// OnUserDidBecomeIdle implements notify.Observer.
func (w *RetentionWorker) OnUserDidBecomeIdle() {
	w.Trigger()
}

func (w *RetentionWorker) purge(ctx context.Context, reason string) {
	if err := w.purger.PurgeExpired(ctx); err != nil {
		w.logger.ErrorContext(ctx, "retention purge failed", "reason", reason, "error", err)
		return
	}
	w.logger.DebugContext(ctx, "retention purge", "reason", reason)
}
