package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisBridge relays alert publishes through a Redis channel so that every
// replica's local hub reaches its own clients.
type RedisBridge struct {
	rdb     *redis.Client
	channel string
	local   Publisher
}

type bridgeEnvelope struct {
	WorkspaceID uuid.UUID           `json:"workspace_id"`
	Alert       domain.AlertSummary `json:"alert"`
}

// NewRedisBridge creates a bridge delivering received alerts to local
func NewRedisBridge(rdb *redis.Client, channel string, local Publisher) *RedisBridge {
	return &RedisBridge{rdb: rdb, channel: channel, local: local}
}

// Publish sends the alert to all replicas, this one included
func (b *RedisBridge) Publish(ctx context.Context, workspaceID uuid.UUID, alert domain.AlertSummary) error {
	data, err := json.Marshal(bridgeEnvelope{WorkspaceID: workspaceID, Alert: alert})
	if err != nil {
		return fmt.Errorf("failed to marshal bridge envelope: %w", err)
	}

	if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish alert to redis: %w", err)
	}
	return nil
}

// Run subscribes to the channel and forwards messages until ctx is done
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	log.Info().Str("channel", b.channel).Msg("Realtime redis bridge subscribed")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.deliver(ctx, msg.Payload)
		}
	}
}

func (b *RedisBridge) deliver(ctx context.Context, payload string) {
	var env bridgeEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Warn().Err(err).Msg("Dropping malformed realtime bridge message")
		return
	}
	if env.WorkspaceID == uuid.Nil {
		log.Warn().Msg("Dropping realtime bridge message without workspace")
		return
	}

	if err := b.local.Publish(ctx, env.WorkspaceID, env.Alert); err != nil {
		log.Warn().Err(err).Str("workspace_id", env.WorkspaceID.String()).Msg("Failed to deliver bridged alert")
	}
}
