package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowKey(t *testing.T) {
	start := time.Date(2025, 3, 3, 10, 15, 0, 0, time.UTC)

	assert.Equal(t, "ratelimit:user:42:1740996900", windowKey("user:42", start))
	assert.NotEqual(t, windowKey("user:42", start), windowKey("user:42", start.Add(time.Minute)))
}

func TestRateLimiter_Limit(t *testing.T) {
	assert.Equal(t, 140, NewRateLimiter(nil, 120, 20).Limit())
}
