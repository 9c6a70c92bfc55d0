package redis

import (
	"context"
	"fmt"
	"time"
)

const ledgerPrefix = "notified:"

// NotificationLedger remembers which entities were already notified for a
// trigger. Keys expire after their TTL.
type NotificationLedger struct {
	client *Client
}

// NewNotificationLedger creates a new ledger
func NewNotificationLedger(client *Client) *NotificationLedger {
	return &NotificationLedger{client: client}
}

// Claim sets key if absent. It reports false when the key already exists.
func (l *NotificationLedger) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.rdb.SetNX(ctx, ledgerPrefix+key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", key, err)
	}
	return ok, nil
}

// Release deletes key
func (l *NotificationLedger) Release(ctx context.Context, key string) error {
	if err := l.client.rdb.Del(ctx, ledgerPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release %s: %w", key, err)
	}
	return nil
}
