package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/finlow/switchbridge/internal/infrastructure/logging"
)

// defaultRepollDelay is the wait after a push settles before the single
// follow-up status poll, so the host reflects the change without
// waiting for the next full refresh interval.
const defaultRepollDelay = 15 * time.Second

// DispatcherConfig configures one device's command dispatcher.
type DispatcherConfig struct {
	// Debounce is the window that collapses bursts of change signals
	// (a user dragging a slider) into one push.
	Debounce time.Duration

	// RepollDelay overrides the wait before the post-push follow-up
	// poll. Zero means the default of 15 seconds.
	RepollDelay time.Duration

	// Push executes the actual transport push. Called from the
	// dispatcher goroutine only, never concurrently with itself.
	Push func(ctx context.Context) error

	// OnSettle is invoked once per push, RepollDelay after it settles.
	// Used to request an off-cadence status poll. May be nil.
	OnSettle func()

	Logger *logging.Logger
}

// Dispatcher coalesces change signals into serialized pushes.
//
// One outstanding-signal slot per device: a burst of signals inside the
// debounce window yields one push with the latest desired value. A
// signal arriving while a push is in flight is recorded, and exactly
// one follow-up push runs after the current one settles. Intermediate
// values are overwritten, never queued.
//
// Thread Safety:
//   - Signal may be called from any goroutine.
type Dispatcher struct {
	cfg      DispatcherConfig
	signal   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	inFlight atomic.Bool
}

// NewDispatcher creates a dispatcher. Call Start to begin processing.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.RepollDelay == 0 {
		cfg.RepollDelay = defaultRepollDelay
	}
	return &Dispatcher{
		cfg:    cfg,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start launches the dispatch loop.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

// Signal records that a desired property changed and a push is owed.
//
// Non-blocking; redundant signals collapse into the pending slot.
func (d *Dispatcher) Signal() {
	select {
	case d.signal <- struct{}{}:
	default:
	}
}

// InFlight reports whether a push is currently executing. The poller
// skips its tick while this is true.
func (d *Dispatcher) InFlight() bool {
	return d.inFlight.Load()
}

// Stop terminates the dispatch loop and waits for it to exit.
// A push already executing runs to completion.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.done)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case <-d.done:
			return
		case <-d.signal:
		}

		// Debounce: let the burst finish before acting.
		timer := time.NewTimer(d.cfg.Debounce)
		select {
		case <-timer.C:
		case <-d.done:
			timer.Stop()
			return
		}

		// Signals that landed during the window refilled the slot. The
		// push about to run covers them, so drain before pushing or the
		// same burst would trigger a second push.
		select {
		case <-d.signal:
		default:
		}

		d.push()
	}
}

func (d *Dispatcher) push() {
	// No cancellation on Stop: a push already on the wire runs to
	// completion so the device is never left mid-command.
	ctx := context.Background()

	d.inFlight.Store(true)
	err := d.cfg.Push(ctx)
	d.inFlight.Store(false)

	if err != nil {
		d.cfg.Logger.Error("push failed", "error", err)
	}

	if d.cfg.OnSettle != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			select {
			case <-time.After(d.cfg.RepollDelay):
				d.cfg.OnSettle()
			case <-d.done:
			}
		}()
	}
}
