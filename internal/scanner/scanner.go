// Package scanner recomputes the qualifying entities of each periodic
// automation trigger from current timestamps and dispatches them.
package scanner

import (
	"context"
	"time"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Dispatcher runs a workspace's rules for a trigger
type Dispatcher interface {
	Dispatch(ctx context.Context, workspaceID uuid.UUID, trigger domain.Trigger, ectx domain.EventContext) domain.DispatchReport
}

// Scanner is one periodic scan
type Scanner interface {
	Name() string
	// Scan processes every qualifying entity. It returns an error only when
	// the qualifying set itself cannot be loaded.
	Scan(ctx context.Context) (Summary, error)
}

// Summary counts what one scan run did
type Summary struct {
	Scanner    string `json:"scanner"`
	Qualified  int    `json:"qualified"`
	Dispatched int    `json:"dispatched"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	Updated    int    `json:"updated"`
}

// Option customizes a scanner
type Option func(*options)

type options struct {
	now       func() time.Time
	loc       *time.Location
	ledgerTTL time.Duration
	window    time.Duration
}

func defaultOptions() options {
	return options{
		now:       time.Now,
		loc:       time.Local,
		ledgerTTL: 30 * 24 * time.Hour,
		window:    24 * time.Hour,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the zone used for day boundaries and rendered dates
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithLedgerTTL sets how long a ledger claim is kept
func WithLedgerTTL(ttl time.Duration) Option {
	return func(o *options) { o.ledgerTTL = ttl }
}

// WithWindow sets the scan's age or dedup window: the minimum age of a
// pending form, or the low-stock alert dedup period
func WithWindow(d time.Duration) Option {
	return func(o *options) { o.window = d }
}

// notifyOnce claims key, dispatches and releases the claim when the dispatch
// settled nothing, so the next run retries. A nil ledger always dispatches.
func notifyOnce(
	ctx context.Context,
	ledger domain.NotificationLedger,
	ttl time.Duration,
	key string,
	dispatch func() domain.DispatchReport,
	summary *Summary,
) {
	if ledger != nil {
		claimed, err := ledger.Claim(ctx, key, ttl)
		if err != nil {
			summary.Failed++
			log.Error().Err(err).Str("scanner", summary.Scanner).Str("key", key).Msg("Notification ledger unavailable, skipping entity")
			return
		}
		if !claimed {
			summary.Skipped++
			return
		}
	}

	report := dispatch()
	summary.Dispatched++

	if ledger == nil || report.Settled() {
		return
	}
	if err := ledger.Release(ctx, key); err != nil {
		log.Warn().Err(err).Str("scanner", summary.Scanner).Str("key", key).Msg("Failed to release notification claim")
	}
}

func logSummary(s Summary, started time.Time) {
	log.Info().
		Str("scanner", s.Scanner).
		Int("qualified", s.Qualified).
		Int("dispatched", s.Dispatched).
		Int("skipped", s.Skipped).
		Int("failed", s.Failed).
		Int("updated", s.Updated).
		Dur("duration", time.Since(started)).
		Msg("Scan finished")
}
