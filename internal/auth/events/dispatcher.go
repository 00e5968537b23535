package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wardenauth/warden/internal/auth/domain"
	"github.com/wardenauth/warden/pkg/slogx"
)

// ErrUnknownEvent is returned when Dispatch receives an event type it has no
// case for. New event types must be added here explicitly so a typo in a
// kind string is caught in tests rather than silently dropped downstream.
var ErrUnknownEvent = errors.New("events: unknown event type")

// Dispatcher validates and serializes domain events before handing them to
// the publisher. Dispatch failures are logged but never fail the operation
// that raised the event: losing an audit event is better than failing a
// login.
type Dispatcher struct {
	publisher Publisher
}

func NewDispatcher(p Publisher) *Dispatcher {
	return &Dispatcher{publisher: p}
}

// Dispatch publishes a single event. The switch is deliberate: each event
// type is validated by name, and an unhandled type is an error.
func (d *Dispatcher) Dispatch(ctx context.Context, e domain.Event) error {
	switch evt := e.(type) {
	case domain.UserSignedUp:
		if evt.UserID == "" || evt.Email == "" {
			return fmt.Errorf("events: %s missing user fields", evt.Kind())
		}
	case domain.UserLoggedIn:
		if evt.UserID == "" || evt.Email == "" {
			return fmt.Errorf("events: %s missing user fields", evt.Kind())
		}
	case domain.UserLoggedOut:
		if evt.UserID == "" {
			return fmt.Errorf("events: %s missing user id", evt.Kind())
		}
	case domain.UserDeleted:
		if evt.UserID == "" || evt.Email == "" {
			return fmt.Errorf("events: %s missing user fields", evt.Kind())
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, e)
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", e.Kind(), err)
	}

	return d.publisher.Publish(ctx, e.Kind(), e.EventID(), e.OccurredAt().UTC().Format(time.RFC3339), payload)
}

// DispatchAsync fires Dispatch and logs any failure. Use it on hot paths
// where event delivery must not block or fail the request.
func (d *Dispatcher) DispatchAsync(ctx context.Context, e domain.Event) {
	log := slogx.FromContext(ctx)
	if err := d.Dispatch(ctx, e); err != nil {
		log.Warn("event dispatch failed", "kind", e.Kind(), "err", err)
	}
}
