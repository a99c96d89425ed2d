// Package ticker runs a body at a fixed cadence, sleeping whatever is left of
// each tick after the body returns.
package ticker

import (
	"context"
	"time"
)

const (
	// Interval60Hz is the continuous-slide cadence.
	Interval60Hz = time.Second / 60
	// Interval15Hz is the show/hide cadence.
	Interval15Hz = time.Second / 15
)

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

// WallClock returns the Clock backed by the time package.
func WallClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Scheduler drives a body at a fixed interval. Iterations never overlap.
type Scheduler struct {
	interval time.Duration
	clock    Clock
}

// New creates a scheduler. A nil clock uses wall time.
func New(interval time.Duration, clock Clock) *Scheduler {
	if interval <= 0 {
		interval = Interval60Hz
	}
	if clock == nil {
		clock = realClock{}
	}
	return &Scheduler{interval: interval, clock: clock}
}

// Interval returns the tick budget.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run invokes body once per tick until ctx is done, checking ctx before every
// iteration and while sleeping. Pass context.Background() to run forever.
// body receives the tick start time.
func (s *Scheduler) Run(ctx context.Context, body func(now time.Time)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := s.clock.Now()
		body(start)
		if err := ctx.Err(); err != nil {
			return err
		}

		wait := Remaining(s.interval, s.clock.Now().Sub(start))
		if wait <= 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(wait):
		}
	}
}

// Remaining returns max(0, interval-elapsed).
func Remaining(interval, elapsed time.Duration) time.Duration {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= interval {
		return 0
	}
	return interval - elapsed
}
