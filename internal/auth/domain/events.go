package domain

import (
	"time"

	"github.com/wardenauth/warden/pkg/idx"
)

// Event kinds published to the message bus. Kinds double as topic suffixes.
const (
	EventKindUserSignedUp  = "user.signed_up"
	EventKindUserLoggedIn  = "user.logged_in"
	EventKindUserLoggedOut = "user.logged_out"
	EventKindUserDeleted   = "user.deleted"
)

// Event is a domain event ready for publishing. Implementations are plain
// structs so payloads marshal directly to JSON.
type Event interface {
	// Kind returns the event kind, e.g. "user.logged_in".
	Kind() string
	// EventID returns a unique identifier for deduplication downstream.
	EventID() string
	// OccurredAt returns when the event happened.
	OccurredAt() time.Time
}

// EventMeta carries the fields every event shares. Embed it in concrete
// event types.
type EventMeta struct {
	ID string    `json:"event_id"`
	At time.Time `json:"occurred_at"`
}

func (m EventMeta) EventID() string       { return m.ID }
func (m EventMeta) OccurredAt() time.Time { return m.At }

// NewEventMeta stamps a fresh event with a ULID and the given time. ULIDs
// sort by creation time, which keeps event logs naturally ordered.
func NewEventMeta(now time.Time) EventMeta {
	return EventMeta{ID: idx.New().String(), At: now.UTC()}
}

// UserSignedUp is published when a new account is created.
type UserSignedUp struct {
	EventMeta

	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (UserSignedUp) Kind() string { return EventKindUserSignedUp }

// UserLoggedIn is published on every successful login.
type UserLoggedIn struct {
	EventMeta

	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (UserLoggedIn) Kind() string { return EventKindUserLoggedIn }

// UserLoggedOut is published when a user ends their session.
type UserLoggedOut struct {
	EventMeta

	UserID string `json:"user_id"`
}

func (UserLoggedOut) Kind() string { return EventKindUserLoggedOut }

// UserDeleted is published when an account is removed. Consumers holding
// per-user state should treat it as a tombstone.
type UserDeleted struct {
	EventMeta

	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (UserDeleted) Kind() string { return EventKindUserDeleted }
