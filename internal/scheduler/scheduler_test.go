package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Rrens/careops/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingScanner struct {
	name  string
	calls atomic.Int32
	scan  func(ctx context.Context) error
}

func (c *countingScanner) Name() string { return c.name }

func (c *countingScanner) Scan(ctx context.Context) (scanner.Summary, error) {
	c.calls.Add(1)
	if c.scan != nil {
		return scanner.Summary{Scanner: c.name}, c.scan(ctx)
	}
	return scanner.Summary{Scanner: c.name, Qualified: 1}, nil
}

func (c *countingScanner) Calls() int { return int(c.calls.Load()) }

type stubLocker struct {
	acquire bool
	err     error
	calls   atomic.Int32
}

func (l *stubLocker) TryLock(context.Context, string, time.Duration) (bool, error) {
	l.calls.Add(1)
	return l.acquire, l.err
}

func TestScheduler_CadencesTickIndependently(t *testing.T) {
	fast := &countingScanner{name: "fast-scan"}
	// The slow cadence wedges on its first tick
	slow := &countingScanner{name: "slow-scan", scan: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	s := New([]Cadence{
		{Name: CadenceFast, Interval: 10 * time.Millisecond, Scanners: []scanner.Scanner{fast}},
		{Name: CadenceSlow, Interval: 30 * time.Millisecond, Scanners: []scanner.Scanner{slow}},
	})
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return slow.Calls() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return fast.Calls() >= 5 }, time.Second, 5*time.Millisecond)

	s.Stop()

	fastAfterStop := fast.Calls()
	slowAfterStop := slow.Calls()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, fastAfterStop, fast.Calls(), "fast cadence must not tick after Stop")
	assert.Equal(t, slowAfterStop, slow.Calls(), "slow cadence must not tick after Stop")
}

func TestScheduler_ScannersRunInOrderAndSurviveFailures(t *testing.T) {
	var order []string
	failing := &countingScanner{name: "failing", scan: func(context.Context) error {
		order = append(order, "failing")
		return errors.New("query failed")
	}}
	panicking := &countingScanner{name: "panicking", scan: func(context.Context) error {
		order = append(order, "panicking")
		panic("nil map")
	}}
	healthy := &countingScanner{name: "healthy", scan: func(context.Context) error {
		order = append(order, "healthy")
		return nil
	}}

	s := New([]Cadence{{Name: CadenceFast, Interval: time.Hour, Scanners: []scanner.Scanner{failing, panicking, healthy}}})

	summaries, err := s.RunNow(context.Background(), CadenceFast)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, []string{"failing", "panicking", "healthy"}, order)
	assert.Equal(t, "panicking", summaries[1].Scanner)
}

func TestScheduler_RunNowUnknownCadence(t *testing.T) {
	s := New([]Cadence{{Name: CadenceFast, Interval: time.Hour}})

	_, err := s.RunNow(context.Background(), "weekly")
	assert.ErrorIs(t, err, ErrUnknownCadence)
}

func TestScheduler_Locker(t *testing.T) {
	t.Run("tick skipped when lock is held elsewhere", func(t *testing.T) {
		sc := &countingScanner{name: "scan"}
		locker := &stubLocker{acquire: false}
		s := New([]Cadence{{Name: CadenceFast, Interval: 5 * time.Millisecond, Scanners: []scanner.Scanner{sc}}}, WithLocker(locker, time.Minute))

		s.Start(context.Background())
		assert.Eventually(t, func() bool { return locker.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
		s.Stop()

		assert.Equal(t, 0, sc.Calls())
	})

	t.Run("lock error falls back to running", func(t *testing.T) {
		sc := &countingScanner{name: "scan"}
		locker := &stubLocker{err: errors.New("redis down")}
		s := New([]Cadence{{Name: CadenceFast, Interval: 5 * time.Millisecond, Scanners: []scanner.Scanner{sc}}}, WithLocker(locker, time.Minute))

		s.Start(context.Background())
		assert.Eventually(t, func() bool { return sc.Calls() >= 1 }, time.Second, 5*time.Millisecond)
		s.Stop()
	})

	t.Run("manual run bypasses the lock", func(t *testing.T) {
		sc := &countingScanner{name: "scan"}
		locker := &stubLocker{acquire: false}
		s := New([]Cadence{{Name: CadenceSlow, Interval: time.Hour, Scanners: []scanner.Scanner{sc}}}, WithLocker(locker, time.Minute))

		_, err := s.RunNow(context.Background(), CadenceSlow)
		require.NoError(t, err)
		assert.Equal(t, 1, sc.Calls())
		assert.Equal(t, int32(0), locker.calls.Load())
	})
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s := New([]Cadence{{Name: CadenceFast, Interval: time.Hour}})
	s.Stop()
	s.Start(context.Background())
	s.Stop()
	s.Stop()
	assert.Equal(t, []string{CadenceFast}, s.Cadences())
}
