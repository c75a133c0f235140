package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/finlow/switchbridge/internal/infrastructure/logging"
)

func TestPollerRefreshesImmediatelyAndOnCadence(t *testing.T) {
	var refreshes atomic.Int32

	p := NewPoller(PollerConfig{
		Interval: 60 * time.Millisecond,
		Refresh: func(context.Context) error {
			refreshes.Add(1)
			return nil
		},
		Logger: logging.Default(),
	})
	p.Start()
	defer p.Stop()

	time.Sleep(160 * time.Millisecond)

	// One immediate refresh plus at least two ticks.
	if got := refreshes.Load(); got < 3 {
		t.Errorf("refreshes = %d, want >= 3", got)
	}
}

func TestPollerSkipsWhilePushInFlight(t *testing.T) {
	var refreshes atomic.Int32
	var busy atomic.Bool
	busy.Store(true)

	p := NewPoller(PollerConfig{
		Interval: 30 * time.Millisecond,
		Refresh: func(context.Context) error {
			refreshes.Add(1)
			return nil
		},
		Busy:   busy.Load,
		Logger: logging.Default(),
	})
	p.Start()
	defer p.Stop()

	time.Sleep(120 * time.Millisecond)
	if got := refreshes.Load(); got != 0 {
		t.Errorf("refreshes = %d while busy, want 0", got)
	}

	busy.Store(false)
	time.Sleep(120 * time.Millisecond)
	if got := refreshes.Load(); got == 0 {
		t.Error("poller never resumed after busy cleared")
	}
}

func TestPollerFastLoopOnlyWhileMoving(t *testing.T) {
	var refreshes atomic.Int32
	var moving atomic.Bool

	p := NewPoller(PollerConfig{
		Interval:     time.Hour, // keep the regular cadence out of the way
		FastInterval: 20 * time.Millisecond,
		Refresh: func(context.Context) error {
			refreshes.Add(1)
			return nil
		},
		Moving: moving.Load,
		Logger: logging.Default(),
	})
	p.Start()
	defer p.Stop()

	time.Sleep(50 * time.Millisecond)
	baseline := refreshes.Load() // the immediate startup refresh only

	time.Sleep(100 * time.Millisecond)
	if got := refreshes.Load(); got != baseline {
		t.Errorf("fast loop refreshed %d times while stopped", got-baseline)
	}

	moving.Store(true)
	time.Sleep(100 * time.Millisecond)
	if got := refreshes.Load(); got <= baseline {
		t.Error("fast loop never refreshed while moving")
	}
}

func TestPollerPoke(t *testing.T) {
	var refreshes atomic.Int32

	p := NewPoller(PollerConfig{
		Interval: time.Hour,
		Refresh: func(context.Context) error {
			refreshes.Add(1)
			return nil
		},
		Logger: logging.Default(),
	})
	p.Start()
	defer p.Stop()

	time.Sleep(20 * time.Millisecond)
	baseline := refreshes.Load()

	p.Poke()
	time.Sleep(50 * time.Millisecond)

	if got := refreshes.Load(); got != baseline+1 {
		t.Errorf("refreshes after Poke = %d, want %d", got, baseline+1)
	}
}

func TestPollerStopReturnsPromptly(t *testing.T) {
	p := NewPoller(PollerConfig{
		Interval: 10 * time.Millisecond,
		Refresh:  func(context.Context) error { return nil },
		Logger:   logging.Default(),
	})
	p.Start()

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return")
	}
}
