package events

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Header names carried on every published message. Consumers route on
// event-type without deserializing the payload.
const (
	headerEventType  = "event-type"
	headerEventID    = "event-id"
	headerOccurredOn = "occurred-on"
)

// messageWriter is the part of kafka.Writer the publisher needs. Tests
// substitute a fake.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes domain events to a Kafka topic.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher writing to the given topic. Hash
// balancing on the event id keeps writes spread across partitions, and
// RequireAll acks mean an accepted event is durable.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, kind, eventID, occurredOn string, payload []byte) error {
	msg := kafka.Message{
		Key:   []byte(eventID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(kind)},
			{Key: headerEventID, Value: []byte(eventID)},
			{Key: headerOccurredOn, Value: []byte(occurredOn)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: kafka publish %s: %w", kind, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }
