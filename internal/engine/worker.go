package engine

import (
	"context"
	"sync"
	"time"

	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/infrastructure/logging"
)

// Capability is the per-device-type behaviour the engine drives.
//
// Adapters implement transport reads and pushes for one vendor model
// family; the Worker owns the timing, retry, and coalescing around
// them.
type Capability interface {
	// Refresh reads current state over the selected transport and
	// updates the registry.
	Refresh(ctx context.Context) error

	// Push applies the pending desired state over the selected
	// transport.
	Push(ctx context.Context) error

	// Moving reports whether the device is believed in motion. Always
	// false for non-covering types.
	Moving() bool

	// PublishDefaults republishes last-known safe state. Used for
	// disabled devices and after offline status codes.
	PublishDefaults(ctx context.Context) error
}

// WorkerConfig carries the per-device timing and retry settings.
type WorkerConfig struct {
	RefreshInterval time.Duration
	UpdateInterval  time.Duration
	PushDebounce    time.Duration
	MaxRetries      int
}

// Worker owns one device's control loops.
//
// For active devices it runs a StatusPoller and a CommandDispatcher;
// for disabled devices it only republishes safe defaults on the
// refresh cadence. Stop tears both loops down and waits.
type Worker struct {
	dev        device.Device
	capability Capability
	cfg        WorkerConfig
	logger     *logging.Logger

	poller     *Poller
	dispatcher *Dispatcher
	started    bool
	mu         sync.Mutex
}

// NewWorker wires the loops for one device.
func NewWorker(dev device.Device, capability Capability, cfg WorkerConfig, logger *logging.Logger) *Worker {
	w := &Worker{
		dev:        dev,
		capability: capability,
		cfg:        cfg,
		logger:     logger.With("device", dev.ID, "name", dev.Name),
	}

	if dev.Mode.Disabled() {
		w.poller = NewPoller(PollerConfig{
			Interval: cfg.RefreshInterval,
			Refresh:  capability.PublishDefaults,
			Logger:   w.logger,
		})
		return w
	}

	w.dispatcher = NewDispatcher(DispatcherConfig{
		Debounce: cfg.PushDebounce,
		Push: func(ctx context.Context) error {
			return Retry(ctx, w.logger, cfg.MaxRetries, capability.Push)
		},
		OnSettle: func() { w.poller.Poke() },
		Logger:   w.logger,
	})

	fastInterval := time.Duration(0)
	if cfg.UpdateInterval > 0 {
		fastInterval = cfg.UpdateInterval
	}

	w.poller = NewPoller(PollerConfig{
		Interval:     cfg.RefreshInterval,
		FastInterval: fastInterval,
		Refresh:      capability.Refresh,
		Moving:       capability.Moving,
		Busy:         w.dispatcher.InFlight,
		Logger:       w.logger,
	})

	return w
}

// Start launches the loops. Safe to call once.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true

	if w.dispatcher != nil {
		w.dispatcher.Start()
	}
	w.poller.Start()
	w.logger.Info("device worker started", "mode", w.dev.Mode)
}

// Signal notifies the dispatcher that a desired property changed.
// No-op for disabled devices.
func (w *Worker) Signal() {
	if w.dispatcher != nil {
		w.dispatcher.Signal()
	}
}

// Device returns the worker's device identity.
func (w *Worker) Device() device.Device {
	return w.dev
}

// Stop tears down the loops and waits for them to exit.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.started = false

	w.poller.Stop()
	if w.dispatcher != nil {
		w.dispatcher.Stop()
	}
	w.logger.Info("device worker stopped")
}
