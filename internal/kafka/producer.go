package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"loghistory-backend/config"
	"loghistory-backend/internal/model"
)

// SnapshotEvent summarises one refresh of the aggregated log view.
type SnapshotEvent struct {
	SnapshotID string                 `json:"snapshotId"`
	FetchedAt  time.Time              `json:"fetchedAt"`
	Status     string                 `json:"status"`
	Entries    int                    `json:"entries"`
	Categories map[model.Category]int `json:"categories"`
}

type SnapshotPublisher interface {
	Publish(ctx context.Context, event SnapshotEvent) error
	Close() error
}

type kafkaSnapshotPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewSnapshotPublisher returns a Kafka backed publisher, or a no-op one when
// no brokers are configured.
func NewSnapshotPublisher(lc fx.Lifecycle, cfg *config.Config) SnapshotPublisher {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.SnapshotTopic == "" {
		log.Info().Msg("Kafka brokers not configured, snapshot events disabled")
		return NoopPublisher{}
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.SnapshotTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
	})
	p := &kafkaSnapshotPublisher{
		writer: writer,
		topic:  cfg.Kafka.SnapshotTopic,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Kafka snapshot publisher")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.SnapshotTopic).Msg("Kafka snapshot publisher initialized")
	return p
}

func (p *kafkaSnapshotPublisher) Publish(ctx context.Context, event SnapshotEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SnapshotID),
		Value: value,
	})
	if err != nil {
		log.Error().Err(err).Str("snapshot_id", event.SnapshotID).Msg("Failed to write snapshot event to Kafka")
		return err
	}
	log.Debug().Str("snapshot_id", event.SnapshotID).Str("topic", p.topic).Msg("Produced snapshot event")
	return nil
}

func (p *kafkaSnapshotPublisher) Close() error {
	return p.writer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, SnapshotEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
