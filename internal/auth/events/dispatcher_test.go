package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/wardenauth/warden/internal/auth/domain"
	"github.com/wardenauth/warden/pkg/idx"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func newMeta() domain.EventMeta {
	return domain.EventMeta{ID: idx.New().String(), At: time.Now().UTC()}
}

func TestDispatch_PublishesWithHeaders(t *testing.T) {
	fw := &fakeWriter{}
	d := NewDispatcher(&KafkaPublisher{writer: fw})

	evt := domain.UserLoggedIn{EventMeta: newMeta(), UserID: "user-1", Email: "alice@example.com"}
	require.NoError(t, d.Dispatch(context.Background(), evt))

	require.Len(t, fw.msgs, 1)
	msg := fw.msgs[0]
	require.Equal(t, []byte(evt.ID), msg.Key)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	require.Equal(t, domain.EventKindUserLoggedIn, headers["event-type"])
	require.Equal(t, evt.ID, headers["event-id"])
	require.NotEmpty(t, headers["occurred-on"])

	var payload domain.UserLoggedIn
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	require.Equal(t, "user-1", payload.UserID)
	require.Equal(t, "alice@example.com", payload.Email)
}

func TestDispatch_ValidatesFields(t *testing.T) {
	d := NewDispatcher(&KafkaPublisher{writer: &fakeWriter{}})
	ctx := context.Background()

	require.Error(t, d.Dispatch(ctx, domain.UserLoggedIn{EventMeta: newMeta()}))
	require.Error(t, d.Dispatch(ctx, domain.UserSignedUp{EventMeta: newMeta(), UserID: "u"}))
	require.Error(t, d.Dispatch(ctx, domain.UserLoggedOut{EventMeta: newMeta()}))
	require.Error(t, d.Dispatch(ctx, domain.UserDeleted{EventMeta: newMeta(), Email: "alice@example.com"}))
}

type unknownEvent struct{ domain.EventMeta }

func (unknownEvent) Kind() string { return "user.teleported" }

func TestDispatch_RejectsUnknownType(t *testing.T) {
	d := NewDispatcher(&KafkaPublisher{writer: &fakeWriter{}})

	err := d.Dispatch(context.Background(), unknownEvent{newMeta()})
	require.ErrorIs(t, err, ErrUnknownEvent)
}

func TestDispatchAsync_SwallowsPublishErrors(t *testing.T) {
	fw := &fakeWriter{err: context.DeadlineExceeded}
	d := NewDispatcher(&KafkaPublisher{writer: fw})

	evt := domain.UserLoggedOut{EventMeta: newMeta(), UserID: "user-1"}
	// Must not panic or propagate the writer error.
	d.DispatchAsync(context.Background(), evt)
}
