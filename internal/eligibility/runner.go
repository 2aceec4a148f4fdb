package eligibility

import (
	"context"
	"log/slog"
	"time"

	"github.com/statusdesk/statusdesk/internal/core/events"
)

// Subscriber registers handlers on the in-process event bus.
type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// Runner drives the sweep: a fixed ticker plus re-runs after configuration
// or whitelist changes.
type Runner struct {
	service  *Service
	interval time.Duration
	logger   *slog.Logger
}

func NewRunner(service *Service, interval time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// BindEvents re-triggers the sweep whenever a rule or whitelist flag changes,
// so restrictions take effect without waiting for the next tick.
func (r *Runner) BindEvents(bus Subscriber) {
	rerun := func(ctx context.Context, event events.Event) error {
		r.logger.Info("sweep re-triggered", "event_type", event.EventType())
		return r.service.Recompute(ctx)
	}
	bus.Subscribe(events.EventTypeConfigChanged, rerun)
	bus.Subscribe(events.EventTypeWhitelistChanged, rerun)
}

// Run blocks, sweeping once immediately and then on every tick until the
// context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("eligibility sweep started", "interval", r.interval)

	if err := r.service.Recompute(ctx); err != nil {
		r.logger.Error("sweep pass failed", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("eligibility sweep stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := r.service.Recompute(ctx); err != nil {
				r.logger.Error("sweep pass failed", "error", err)
			}
		}
	}
}
