package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/env-context-service/internal/config"
	"github.com/couchcryptid/env-context-service/internal/domain"
	"github.com/couchcryptid/env-context-service/internal/schema"
	kafkago "github.com/segmentio/kafka-go"
)

// Message header keys set on every published snapshot.
const (
	HeaderCycleID    = "cycle_id"
	HeaderHasData    = "has_data"
	HeaderGatheredAt = "gathered_at"
)

// Publisher produces environmental snapshots to a Kafka topic.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured snapshot topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSnapshotTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish writes one snapshot keyed by its date, so consumers of a compacted
// topic keep the latest snapshot per day.
func (p *Publisher) Publish(ctx context.Context, cycleID string, s *domain.Snapshot) error {
	msg, err := serializeToMessage(cycleID, domain.Now(), s)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	p.logger.Debug("snapshot published",
		"cycle_id", cycleID,
		"topic", p.writer.Topic,
		"date", string(msg.Key),
	)
	return nil
}

// Close flushes pending writes and closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a snapshot into a Kafka message.
func serializeToMessage(cycleID string, gatheredAt time.Time, s *domain.Snapshot) (kafkago.Message, error) {
	if s == nil {
		return kafkago.Message{}, errors.New("serialize snapshot: nil snapshot")
	}
	event := schema.ToSnapshotEvent(cycleID, gatheredAt, s)
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Environment.Date),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderCycleID, Value: []byte(cycleID)},
			{Key: HeaderHasData, Value: []byte(strconv.FormatBool(s.HasAnyData()))},
			{Key: HeaderGatheredAt, Value: []byte(event.GatheredAt.Format(time.RFC3339))},
		},
	}, nil
}
