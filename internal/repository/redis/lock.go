package redis

import (
	"context"
	"fmt"
	"os"
	"time"
)

const lockPrefix = "lock:"

// Locker hands out named locks that expire on their own. It is used to let
// a single replica run each scheduler tick.
type Locker struct {
	client *Client
	owner  string
}

// NewLocker creates a locker identifying itself by host name and pid
func NewLocker(client *Client) *Locker {
	host, _ := os.Hostname()
	return &Locker{client: client, owner: fmt.Sprintf("%s:%d", host, os.Getpid())}
}

// TryLock takes lock:<name> for ttl. It reports false when held elsewhere.
func (l *Locker) TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.rdb.SetNX(ctx, lockPrefix+name, l.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to take lock %s: %w", name, err)
	}
	return ok, nil
}
