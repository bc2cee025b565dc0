// Package activity publishes domain events (registrations, updates, chat
// posts) to a Kafka topic for downstream consumers.
package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TypeEventCreated      = "event.created"
	TypeEventUpdated      = "event.updated"
	TypeUserRegistered    = "event.registered"
	TypeChatMessagePosted = "chat.posted"
)

type Record struct {
	Type       string    `json:"type"`
	EventID    uuid.UUID `json:"eventId"`
	ActorID    uuid.UUID `json:"actorId"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, rec Record) error
	Close() error
}

type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}}
}

// Publish keys records by event id so one event's history stays ordered
// within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, rec Record) error {
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.EventID.String()),
		Value: value,
		Time:  rec.OccurredAt,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Noop discards records. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Record) error { return nil }
func (Noop) Close() error                          { return nil }
