package adapter

import (
	"context"
	"sync"
	"time"

	"github.com/finlow/switchbridge/internal/ble"
	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/engine"
	"github.com/finlow/switchbridge/internal/infrastructure/config"
	"github.com/finlow/switchbridge/internal/infrastructure/influxdb"
	"github.com/finlow/switchbridge/internal/infrastructure/logging"
	"github.com/finlow/switchbridge/internal/openapi"
)

// Deps carries the shared services every adapter draws on.
//
// Cloud, Scanner, Control, Store, and History may be nil; adapters
// treat a missing transport as unavailable and fall back or skip per
// the selection rules, and skip persistence and history silently.
type Deps struct {
	Registry *device.Registry
	Store    *device.ContextStore
	Cloud    *openapi.Client
	Scanner  ble.Scanner
	Control  ble.Controller
	Sync     *PropertySync
	History  *influxdb.Client
	Logger   *logging.Logger
}

// Setter handles a host-published desired value for one property.
//
// Implemented by adapters with writable properties; the MQTT set-topic
// subscription routes payloads here.
type Setter interface {
	HandleSet(property, value string) error
}

// offlineFlag remembers that the vendor reported the device offline.
// Pushes are suspended while it is set; the next successful status
// read clears it. Held by pointer because base is copied by value.
type offlineFlag struct {
	mu  sync.Mutex
	set bool
}

func (f *offlineFlag) mark() {
	f.mu.Lock()
	f.set = true
	f.mu.Unlock()
}

func (f *offlineFlag) clear() {
	f.mu.Lock()
	f.set = false
	f.mu.Unlock()
}

func (f *offlineFlag) active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set
}

// base holds the per-device state and helpers shared by all adapters.
type base struct {
	dev     device.Device
	cfg     config.DeviceConfig
	deps    Deps
	offline *offlineFlag
	logger  *logging.Logger
}

func newBase(dev device.Device, cfg config.DeviceConfig, deps Deps) base {
	return base{
		dev:     dev,
		cfg:     cfg,
		deps:    deps,
		offline: &offlineFlag{},
		logger:  deps.Logger.With("device", dev.ID, "name", dev.Name),
	}
}

// pushSuspended reports whether commands should be held back because
// the device was last seen offline. Skipped pushes are not queued; the
// desired value stays in the registry and the next change signal after
// the device recovers sends it.
func (b *base) pushSuspended() bool {
	if b.offline.active() {
		b.logger.Debug("push suspended, device offline")
		return true
	}
	return false
}

func (b *base) cloudAvailable() bool {
	return b.deps.Cloud != nil && b.deps.Cloud.Available()
}

func (b *base) bleAvailable() bool {
	return b.deps.Scanner != nil
}

// transportFor picks the primary transport, treating an absent radio
// module as an immediate BLE failure.
func (b *base) transportFor() engine.Transport {
	t := engine.SelectTransport(b.dev.Mode, b.cloudAvailable())
	if t == engine.UseBLE && !b.bleAvailable() {
		fallback := engine.FallbackTransport(b.dev.Mode, b.cloudAvailable())
		if fallback != engine.UseNeither {
			b.logger.Debug("radio absent, using cloud")
		}
		return fallback
	}
	return t
}

// scan performs one advertisement wait for this device.
func (b *base) scan(ctx context.Context) (*ble.Advertisement, error) {
	return b.deps.Scanner.Scan(ctx, ble.ScanFilter{
		Address: b.dev.Address,
		Model:   ble.ModelCode(b.dev.Type),
		Timeout: b.cfg.ScanTimeout(),
	})
}

// applyStatus mutates the registry snapshot, publishes changed
// properties, persists the context, and records history samples.
func (b *base) applyStatus(ctx context.Context, mutate func(*device.Status)) (device.Status, error) {
	prev, err := b.deps.Registry.Status(b.dev.ID)
	if err != nil {
		return device.Status{}, err
	}

	next, err := b.deps.Registry.UpdateStatus(b.dev.ID, mutate)
	if err != nil {
		return device.Status{}, err
	}

	b.offline.clear()
	b.deps.Sync.Sync(b.dev, prev, next, false)
	b.persist(ctx, next)
	b.record(next)
	return next, nil
}

// publishDefaults republishes last-known safe state, marked offline.
// Never fails; the host always gets something.
func (b *base) publishDefaults(ctx context.Context) error {
	prev, err := b.deps.Registry.Status(b.dev.ID)
	if err != nil {
		return err
	}

	next, err := b.deps.Registry.UpdateStatus(b.dev.ID, func(s *device.Status) {
		*s = s.OfflineDefaults()
	})
	if err != nil {
		return err
	}

	b.offline.mark()
	b.deps.Sync.Sync(b.dev, prev, next, false)
	b.persist(ctx, next)
	return nil
}

func (b *base) persist(ctx context.Context, status device.Status) {
	if b.deps.Store == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := b.deps.Store.Save(saveCtx, b.dev, status); err != nil {
		b.logger.Warn("context save failed", "error", err)
	}
}

func (b *base) record(status device.Status) {
	if b.deps.History == nil {
		return
	}
	b.deps.History.WriteStatusSample(b.dev.ID, b.dev.Type, "current_position", float64(status.CurrentPosition))
	b.deps.History.WriteStatusSample(b.dev.ID, b.dev.Type, "battery_level", float64(status.BatteryLevel))
	if status.AmbientLight > 0 {
		b.deps.History.WriteStatusSample(b.dev.ID, b.dev.Type, "ambient_light", status.AmbientLight)
	}
	if status.Temperature != 0 {
		b.deps.History.WriteStatusSample(b.dev.ID, b.dev.Type, "temperature", status.Temperature)
	}
}

func (b *base) recordTransport(transport engine.Transport, operation string, success bool) {
	if b.deps.History == nil {
		return
	}
	b.deps.History.WriteTransportEvent(b.dev.ID, transport.String(), operation, success)
}

// interpretCloudCode routes a vendor status code through the shared
// interpreter and forces offline defaults when called for.
func (b *base) interpretCloudCode(ctx context.Context, code int) openapi.Outcome {
	outcome := openapi.InterpretStatusCode(b.logger, b.dev.Name, code)
	if outcome.Offline() {
		if err := b.publishDefaults(ctx); err != nil {
			b.logger.Error("offline defaults failed", "error", err)
		}
	}
	return outcome
}
