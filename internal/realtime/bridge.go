// Package realtime forwards domain events to a Redis channel so connected
// dashboards see status flips, restriction notices and session changes as
// they happen.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/statusdesk/statusdesk/internal/core/events"
)

// Subscriber registers handlers on the in-process event bus.
type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// envelope is the wire shape dashboards consume.
type envelope struct {
	Event     string      `json:"event"`
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

type Bridge struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewBridge(client *redis.Client, channel string, logger *slog.Logger) *Bridge {
	return &Bridge{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// forwardedEvents is the set of bus events mirrored onto the wire.
var forwardedEvents = []string{
	events.EventTypeStatusChanged,
	events.EventTypeRestrictionNotice,
	events.EventTypeUserLoggedIn,
	events.EventTypeUserLoggedOut,
	events.EventTypeWhitelistChanged,
	events.EventTypeConfigChanged,
}

// BindEvents mirrors bus events onto the Redis channel. Forwarding is
// fire-and-forget: a broker failure is logged and never propagated.
func (b *Bridge) BindEvents(bus Subscriber) {
	for _, eventType := range forwardedEvents {
		bus.Subscribe(eventType, b.forward)
	}
}

func (b *Bridge) forward(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(envelope{
		Event:     event.EventType(),
		ID:        event.EventID(),
		Timestamp: event.OccurredAt(),
		Payload:   event.Payload(),
	})
	if err != nil {
		b.logger.Error("failed to encode realtime event",
			"event_type", event.EventType(), "error", err)
		return nil
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.logger.Error("failed to publish realtime event",
			"event_type", event.EventType(),
			"channel", b.channel,
			"error", err)
	}
	return nil
}

// Ping reports broker reachability for health checks.
func (b *Bridge) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *Bridge) Close() error {
	return b.client.Close()
}
