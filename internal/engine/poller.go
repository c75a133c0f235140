package engine

import (
	"context"
	"sync"
	"time"

	"github.com/finlow/switchbridge/internal/infrastructure/logging"
)

// PollerConfig configures one device's status poller.
type PollerConfig struct {
	// Interval is the regular refresh cadence. Callers enforce the
	// configured floor before building the poller.
	Interval time.Duration

	// FastInterval re-polls while motion is believed in progress, to
	// catch the transition to stopped promptly. Zero disables the fast
	// loop (non-covering devices).
	FastInterval time.Duration

	// Refresh performs the transport read and registry update.
	Refresh func(ctx context.Context) error

	// Moving reports whether the device is believed in motion. Only
	// consulted when FastInterval is set.
	Moving func() bool

	// Busy reports whether a push is in flight; ticks are skipped
	// while it returns true.
	Busy func() bool

	Logger *logging.Logger
}

// Poller reads device status on a fixed cadence.
//
// Three triggers share one refresh path: the regular interval, a faster
// interval active only during motion, and one-shot pokes requested
// after a push settles. Refresh errors are logged, never propagated;
// the host keeps the last good value.
type Poller struct {
	cfg      PollerConfig
	kick     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPoller creates a poller. Call Start to begin polling.
func NewPoller(cfg PollerConfig) *Poller {
	return &Poller{
		cfg:  cfg,
		kick: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Start launches the poll loop. The first refresh runs immediately.
func (p *Poller) Start() {
	p.wg.Add(1)
	go p.run()
}

// Poke requests one off-cadence refresh. Non-blocking; redundant pokes
// collapse.
func (p *Poller) Poke() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Stop terminates the poll loop and waits for it to exit.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	var fast <-chan time.Time
	if p.cfg.FastInterval > 0 {
		fastTicker := time.NewTicker(p.cfg.FastInterval)
		defer fastTicker.Stop()
		fast = fastTicker.C
	}

	p.refresh()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.refresh()
		case <-fast:
			if p.cfg.Moving != nil && p.cfg.Moving() {
				p.refresh()
			}
		case <-p.kick:
			p.refresh()
		}
	}
}

func (p *Poller) refresh() {
	if p.cfg.Busy != nil && p.cfg.Busy() {
		p.cfg.Logger.Debug("skipping poll, push in flight")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-p.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := p.cfg.Refresh(ctx); err != nil {
		p.cfg.Logger.Error("status refresh failed", "error", err)
	}
}
