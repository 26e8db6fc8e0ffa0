// Package auditlog publishes entity change events for the audit trail.
package auditlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Event describes one committed entity change.
type Event struct {
	Entity   string    `json:"entity"`
	EntityID string    `json:"entity_id"`
	Op       string    `json:"op"`
	Author   string    `json:"author"`
	At       time.Time `json:"at"`
}

// Publisher emits audit events. Publishing is best-effort and must never fail
// a committed write; implementations log and drop on error.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Noop discards events. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, event Event) {}

// Kafka publishes audit events to a Kafka topic.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka connects to the given seed brokers.
func NewKafka(brokers []string, topic string, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, err
	}
	return &Kafka{client: client, topic: topic, logger: logger}, nil
}

// Publish produces the event asynchronously. Delivery failures are logged,
// never propagated: the write already committed.
func (k *Kafka) Publish(ctx context.Context, event Event) {
	value, err := json.Marshal(event)
	if err != nil {
		k.logger.ErrorContext(ctx, "marshal audit event", "error", err)
		return
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.Entity + ":" + event.EntityID),
		Value: value,
	}
	k.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			k.logger.Error("publish audit event",
				"entity", event.Entity,
				"entity_id", event.EntityID,
				"error", err,
			)
		}
	})
}

// Close flushes pending events and releases the client.
func (k *Kafka) Close() {
	k.client.Close()
}
