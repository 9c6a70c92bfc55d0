// Package scheduler drives the periodic scans on independent fixed-interval
// cadences.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Rrens/careops/internal/scanner"
	"github.com/rs/zerolog/log"
)

// Cadence names used by the default wiring
const (
	CadenceFast = "fast"
	CadenceSlow = "slow"
)

var ErrUnknownCadence = errors.New("unknown cadence")

// Cadence is a set of scanners run together, one after another, every Interval
type Cadence struct {
	Name     string
	Interval time.Duration
	Scanners []scanner.Scanner
}

// Locker grants a tick to a single replica. TryLock reports false when
// another holder has the lock.
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
}

// Scheduler runs each cadence in its own goroutine. Ticks of one cadence never
// overlap each other; different cadences may run at the same time.
type Scheduler struct {
	cadences map[string]Cadence
	order    []string
	locker   Locker
	lockTTL  time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// Option customizes a Scheduler
type Option func(*Scheduler)

// WithLocker makes every tick take a named lock first. A tick that loses
// the lock is skipped.
func WithLocker(l Locker, ttl time.Duration) Option {
	return func(s *Scheduler) {
		s.locker = l
		s.lockTTL = ttl
	}
}

func New(cadences []Cadence, opts ...Option) *Scheduler {
	s := &Scheduler{cadences: make(map[string]Cadence, len(cadences))}
	for _, c := range cadences {
		s.cadences[c.Name] = c
		s.order = append(s.order, c.Name)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches one ticker per cadence. It returns immediately; the first
// run happens one interval after Start.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for _, name := range s.order {
		c := s.cadences[name]
		if c.Interval <= 0 {
			log.Warn().Str("cadence", c.Name).Msg("Cadence has no interval, not scheduling")
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, c)
	}

	log.Info().Int("cadences", len(s.order)).Msg("Scheduler started")
}

// Stop cancels all cadences and waits for in-flight ticks to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	log.Info().Msg("Scheduler stopped")
}

// RunNow runs a cadence once, synchronously, without taking the lock
func (s *Scheduler) RunNow(ctx context.Context, name string) ([]scanner.Summary, error) {
	c, ok := s.cadences[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCadence, name)
	}
	return s.run(ctx, c), nil
}

// Cadences returns the configured cadence names in registration order
func (s *Scheduler) Cadences() []string {
	return append([]string(nil), s.order...)
}

func (s *Scheduler) loop(ctx context.Context, c Cadence) {
	defer s.wg.Done()

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	log.Info().Str("cadence", c.Name).Dur("interval", c.Interval).Msg("Cadence scheduled")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, c)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, c Cadence) {
	if s.locker != nil {
		acquired, err := s.locker.TryLock(ctx, c.Name, s.lockTTL)
		if err != nil {
			// Without the lock we fall back to single-process behavior
			log.Warn().Err(err).Str("cadence", c.Name).Msg("Cadence lock unavailable, running anyway")
		} else if !acquired {
			log.Debug().Str("cadence", c.Name).Msg("Cadence tick held by another instance")
			return
		}
	}

	s.run(ctx, c)
}

func (s *Scheduler) run(ctx context.Context, c Cadence) []scanner.Summary {
	summaries := make([]scanner.Summary, 0, len(c.Scanners))
	for _, sc := range c.Scanners {
		if ctx.Err() != nil {
			break
		}
		summary, err := runScanner(ctx, sc)
		if err != nil {
			log.Error().Err(err).Str("cadence", c.Name).Str("scanner", sc.Name()).Msg("Scan failed")
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func runScanner(ctx context.Context, sc scanner.Scanner) (summary scanner.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in scanner %s: %v", sc.Name(), r)
		}
		if summary.Scanner == "" {
			summary.Scanner = sc.Name()
		}
	}()

	return sc.Scan(ctx)
}
