package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/infrastructure/logging"
)

// fakeCapability counts engine callbacks.
type fakeCapability struct {
	refreshes atomic.Int32
	pushes    atomic.Int32
	defaults  atomic.Int32
	moving    atomic.Bool
}

func (f *fakeCapability) Refresh(context.Context) error {
	f.refreshes.Add(1)
	return nil
}

func (f *fakeCapability) Push(context.Context) error {
	f.pushes.Add(1)
	return nil
}

func (f *fakeCapability) Moving() bool {
	return f.moving.Load()
}

func (f *fakeCapability) PublishDefaults(context.Context) error {
	f.defaults.Add(1)
	return nil
}

func testWorkerConfig() WorkerConfig {
	return WorkerConfig{
		RefreshInterval: 50 * time.Millisecond,
		UpdateInterval:  20 * time.Millisecond,
		PushDebounce:    10 * time.Millisecond,
		MaxRetries:      0,
	}
}

func TestWorkerActiveDevicePolls(t *testing.T) {
	capability := &fakeCapability{}
	dev := device.Device{ID: "AAA", Name: "test", Mode: device.ModeBoth}

	w := NewWorker(dev, capability, testWorkerConfig(), logging.Default())
	w.Start()
	defer w.Stop()

	time.Sleep(150 * time.Millisecond)

	if capability.refreshes.Load() == 0 {
		t.Error("worker never refreshed")
	}
	if capability.defaults.Load() != 0 {
		t.Error("active device should not republish defaults")
	}
}

func TestWorkerSignalTriggersPush(t *testing.T) {
	capability := &fakeCapability{}
	dev := device.Device{ID: "AAA", Name: "test", Mode: device.ModeBoth}

	w := NewWorker(dev, capability, testWorkerConfig(), logging.Default())
	w.Start()
	defer w.Stop()

	w.Signal()
	time.Sleep(100 * time.Millisecond)

	if got := capability.pushes.Load(); got != 1 {
		t.Errorf("pushes = %d, want 1", got)
	}
}

func TestWorkerDisabledDeviceRepublishesDefaults(t *testing.T) {
	capability := &fakeCapability{}
	dev := device.Device{ID: "AAA", Name: "test", Mode: device.ModeDisabled}

	w := NewWorker(dev, capability, testWorkerConfig(), logging.Default())
	w.Start()
	defer w.Stop()

	// Signal must be a harmless no-op for disabled devices.
	w.Signal()
	time.Sleep(150 * time.Millisecond)

	if capability.defaults.Load() == 0 {
		t.Error("disabled device never republished defaults")
	}
	if capability.refreshes.Load() != 0 {
		t.Error("disabled device should not touch transports")
	}
	if capability.pushes.Load() != 0 {
		t.Error("disabled device should never push")
	}
}

func TestWorkerStopIsIdempotent(t *testing.T) {
	capability := &fakeCapability{}
	dev := device.Device{ID: "AAA", Name: "test", Mode: device.ModeBoth}

	w := NewWorker(dev, capability, testWorkerConfig(), logging.Default())
	w.Start()
	w.Stop()
	w.Stop()
}
