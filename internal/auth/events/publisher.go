package events

import (
	"context"
	"log/slog"
)

// Publisher delivers serialized domain events to the message bus.
type Publisher interface {
	Publish(ctx context.Context, kind, eventID string, occurredOn string, payload []byte) error
	Close() error
}

// LogPublisher writes events to the log instead of a broker. Used when no
// Kafka brokers are configured, so single-node deployments still get an
// audit trail.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p *LogPublisher) Publish(ctx context.Context, kind, eventID, occurredOn string, payload []byte) error {
	p.Logger.Info("domain_event",
		"kind", kind,
		"event_id", eventID,
		"occurred_on", occurredOn,
		"payload", string(payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
