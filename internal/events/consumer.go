// Package events consumes domain events published by the surrounding
// business services and hands them to the automation engine.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Rrens/careops/internal/config"
	"github.com/Rrens/careops/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Raiser runs the rules of a domain event
type Raiser interface {
	Raise(ctx context.Context, event domain.DomainEvent) (domain.DispatchReport, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads domain events from a topic. Every message is committed once
// handled, including malformed ones: events are fire-and-forget and are
// never redelivered.
type Consumer struct {
	reader   messageReader
	raiser   Raiser
	validate *validator.Validate
	backoff  time.Duration
}

const fetchBackoff = time.Second

// NewConsumer creates a consumer in the configured group
func NewConsumer(cfg config.KafkaConfig, raiser Raiser) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		MaxWait:        time.Second,
		CommitInterval: 0,
		StartOffset:    kafka.LastOffset,
	})

	return newConsumer(reader, raiser), nil
}

func newConsumer(reader messageReader, raiser Raiser) *Consumer {
	return &Consumer{reader: reader, raiser: raiser, validate: validator.New(), backoff: fetchBackoff}
}

// Run consumes until ctx is cancelled. Fetch errors are logged and retried.
func (c *Consumer) Run(ctx context.Context) error {
	log.Info().Msg("Domain event consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Broker hiccups are retried; only shutdown stops the loop.
			log.Error().Err(err).Dur("backoff", c.backoff).Msg("Failed to fetch domain event")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.backoff):
			}
			continue
		}

		c.handleMessage(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Int64("offset", msg.Offset).Msg("Failed to commit domain event")
		}
	}
}

// Close closes the underlying reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) {
	logger := log.With().
		Str("topic", msg.Topic).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Logger()

	var event domain.DomainEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Error().Err(err).Msg("Dropping malformed domain event")
		return
	}
	if err := c.validate.Struct(event); err != nil {
		logger.Error().Err(err).Msg("Dropping invalid domain event")
		return
	}

	report, err := c.raiser.Raise(ctx, event)
	if err != nil {
		logger.Error().
			Err(err).
			Str("workspace_id", event.WorkspaceID.String()).
			Str("trigger", string(event.Trigger)).
			Msg("Domain event rejected")
		return
	}

	logger.Info().
		Str("workspace_id", event.WorkspaceID.String()).
		Str("trigger", string(event.Trigger)).
		Int("matched", report.Matched()).
		Int("failed", report.Count(domain.ExecutionFailed)).
		Msg("Domain event dispatched")
}
