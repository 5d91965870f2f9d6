package daemon

import (
	"context"
	"log/slog"
	"time"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically asks the consumer to sweep windows that vanished
// without a destroy notification.
type Reconciler struct {
	interval time.Duration
	send     func(Message) bool
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler. send enqueues a message and
// reports whether the daemon accepted it.
func NewReconciler(cfg ReconcilerConfig, send func(Message) bool) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval: interval,
		send:     send,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("reconciler stopped")
			return
		case <-ticker.C:
			if !r.send(TickMsg{}) {
				return
			}
		}
	}
}
