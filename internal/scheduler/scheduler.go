// Package scheduler drives the polling loop: run a cycle, sleep the
// configured interval, run the next. Cycles never overlap; the wait starts
// only after the previous cycle has returned.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TickFunc executes one polling cycle. startedAt is the wall-clock time the
// cycle began and becomes the cycle's recorded timestamp.
type TickFunc func(ctx context.Context, startedAt time.Time) error

// Options tune scheduler behaviour.
type Options struct {
	Interval     time.Duration
	StartupDelay time.Duration
}

// Scheduler repeats a polling cycle at a fixed interval, forever.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
}

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	if opts.Interval <= 0 {
		panic("scheduler interval must be positive")
	}
	return &Scheduler{opts: opts, logger: logger.With().Str("component", "scheduler").Logger()}
}

// Run blocks, invoking the tick function immediately and then after every
// interval sleep until ctx is cancelled. A failed tick is logged and the loop
// proceeds to the next interval; nothing a tick returns stops the loop.
func (s *Scheduler) Run(ctx context.Context, tick TickFunc) error {
	if s.opts.StartupDelay > 0 {
		if err := s.sleep(ctx, s.opts.StartupDelay); err != nil {
			return err
		}
	}

	for {
		startedAt := time.Now()
		s.logger.Debug().Time("started_at", startedAt).Msg("executing polling cycle")

		if err := tick(ctx, startedAt); err != nil {
			s.logger.Error().Err(err).Time("started_at", startedAt).Msg("cycle execution failed")
		}

		s.logger.Debug().Time("next_cycle", time.Now().Add(s.opts.Interval)).Msg("waiting for next cycle")
		if err := s.sleep(ctx, s.opts.Interval); err != nil {
			return err
		}
	}
}

func (s *Scheduler) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
