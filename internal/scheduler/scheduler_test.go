package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSchedulerFirstTickImmediate(t *testing.T) {
	sched := New(Options{Interval: 500 * time.Millisecond}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := 0
	start := time.Now()
	err := sched.Run(ctx, func(context.Context, time.Time) error {
		ticks++
		cancel()
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if ticks != 1 {
		t.Fatalf("ticks = %d, want 1", ticks)
	}
	if elapsed := time.Since(start); elapsed >= 400*time.Millisecond {
		t.Fatalf("first tick should fire without an interval wait, took %v", elapsed)
	}
}

func TestSchedulerSleepsAfterCycleCompletes(t *testing.T) {
	interval := 40 * time.Millisecond
	tickDuration := 60 * time.Millisecond
	sched := New(Options{Interval: interval}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var starts []time.Time
	err := sched.Run(ctx, func(context.Context, time.Time) error {
		starts = append(starts, time.Now())
		if len(starts) == 3 {
			cancel()
			return nil
		}
		time.Sleep(tickDuration)
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if len(starts) != 3 {
		t.Fatalf("ticks = %d, want 3", len(starts))
	}

	// The interval must only start counting once the cycle has finished, so
	// consecutive starts are at least tick duration + interval apart.
	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(starts[i-1]); gap < tickDuration+interval {
			t.Fatalf("cycle %d started %v after the previous, want >= %v", i, gap, tickDuration+interval)
		}
	}
}

func TestSchedulerContinuesAfterTickError(t *testing.T) {
	sched := New(Options{Interval: 10 * time.Millisecond}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := 0
	err := sched.Run(ctx, func(context.Context, time.Time) error {
		ticks++
		if ticks == 3 {
			cancel()
		}
		return errors.New("scrape blew up")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if ticks != 3 {
		t.Fatalf("loop must survive tick errors, got %d ticks", ticks)
	}
}

func TestSchedulerStartupDelay(t *testing.T) {
	delay := 80 * time.Millisecond
	sched := New(Options{Interval: 10 * time.Millisecond, StartupDelay: delay}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	var first time.Time
	err := sched.Run(ctx, func(context.Context, time.Time) error {
		first = time.Now()
		cancel()
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if waited := first.Sub(start); waited < delay {
		t.Fatalf("first tick after %v, want startup delay of %v honoured", waited, delay)
	}
}

func TestNewPanicsOnNonPositiveInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero interval")
		}
	}()
	New(Options{}, zerolog.Nop())
}
