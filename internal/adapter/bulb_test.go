package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/infrastructure/config"
)

func bulbDevice(mode device.ConnectionMode) device.Device {
	return device.Device{
		ID:      "F0E1D2C3B4A5",
		Type:    "Color Bulb",
		Name:    "Desk Lamp",
		Address: "f0:e1:d2:c3:b4:a5",
		Mode:    mode,
	}
}

func bulbConfig() config.DeviceConfig {
	return config.DeviceConfig{
		DeviceID:       "F0E1D2C3B4A5",
		DeviceType:     "Color Bulb",
		ConnectionType: "OpenAPI",
		ScanDuration:   1,
	}
}

func TestBulbBrightnessPush(t *testing.T) {
	h := newHarness(t, true)
	dev := bulbDevice(device.ModeCloud)
	h.addDevice(t, dev, device.Status{})

	b := NewBulb(dev, bulbConfig(), h.deps)

	if err := b.HandleSet("brightness", "60"); err != nil {
		t.Fatalf("HandleSet() error = %v", err)
	}
	if err := b.Push(context.Background()); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	commands := h.cloud.sentCommands()
	if len(commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(commands))
	}
	if commands[0].Command != "setBrightness" {
		t.Errorf("command = %q, want setBrightness", commands[0].Command)
	}
	if commands[0].Parameter != "60" {
		t.Errorf("parameter = %q, want 60", commands[0].Parameter)
	}

	// Brightness above zero implies the light is on.
	status, err := h.registry.Status(dev.ID)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.PowerOn {
		t.Error("PowerOn = false, want true after brightness set")
	}
}

func TestBulbPowerOffWinsOverBrightness(t *testing.T) {
	h := newHarness(t, true)
	dev := bulbDevice(device.ModeCloud)
	h.addDevice(t, dev, device.Status{Brightness: 80, PowerOn: true})

	b := NewBulb(dev, bulbConfig(), h.deps)

	if err := b.HandleSet("power", "off"); err != nil {
		t.Fatalf("HandleSet() error = %v", err)
	}
	if err := b.Push(context.Background()); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	commands := h.cloud.sentCommands()
	if len(commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(commands))
	}
	if commands[0].Command != "turnOff" {
		t.Errorf("command = %q, want turnOff", commands[0].Command)
	}
}

func TestBulbRedundantPushSkipped(t *testing.T) {
	h := newHarness(t, true)
	dev := bulbDevice(device.ModeCloud)
	h.addDevice(t, dev, device.Status{})

	b := NewBulb(dev, bulbConfig(), h.deps)

	if err := b.HandleSet("brightness", "40"); err != nil {
		t.Fatalf("HandleSet() error = %v", err)
	}
	if err := b.Push(context.Background()); err != nil {
		t.Fatalf("first Push() error = %v", err)
	}
	if err := b.Push(context.Background()); err != nil {
		t.Fatalf("second Push() error = %v", err)
	}

	if got := len(h.cloud.sentCommands()); got != 1 {
		t.Errorf("commands = %d, want 1", got)
	}
}

func TestBulbRefreshParsesState(t *testing.T) {
	h := newHarness(t, true)
	dev := bulbDevice(device.ModeCloud)
	h.addDevice(t, dev, device.Status{})

	h.cloud.mu.Lock()
	h.cloud.status.Power = "on"
	h.cloud.status.Brightness = "75"
	h.cloud.mu.Unlock()

	b := NewBulb(dev, bulbConfig(), h.deps)

	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	status, err := h.registry.Status(dev.ID)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.PowerOn {
		t.Error("PowerOn = false, want true")
	}
	if status.Brightness != 75 {
		t.Errorf("Brightness = %d, want 75", status.Brightness)
	}
	if !status.Online {
		t.Error("Online = false, want true")
	}
}

func TestBulbBLEPowerFallback(t *testing.T) {
	h := newHarness(t, false)
	dev := bulbDevice(device.ModeBLE)
	h.addDevice(t, dev, device.Status{})

	b := NewBulb(dev, bulbConfig(), h.deps)

	if err := b.HandleSet("power", "on"); err != nil {
		t.Fatalf("HandleSet() error = %v", err)
	}
	if err := b.Push(context.Background()); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	h.control.mu.Lock()
	onCalls := h.control.onCalls
	h.control.mu.Unlock()
	if onCalls != 1 {
		t.Errorf("TurnOn calls = %d, want 1", onCalls)
	}
}

func TestBulbInvalidValues(t *testing.T) {
	h := newHarness(t, true)
	dev := bulbDevice(device.ModeCloud)
	h.addDevice(t, dev, device.Status{})

	b := NewBulb(dev, bulbConfig(), h.deps)

	if err := b.HandleSet("brightness", "150"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("HandleSet(brightness, 150) error = %v, want ErrInvalidValue", err)
	}
	if err := b.HandleSet("power", "maybe"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("HandleSet(power, maybe) error = %v, want ErrInvalidValue", err)
	}
	if err := b.HandleSet("hue", "10"); !errors.Is(err, ErrUnsupportedProperty) {
		t.Errorf("HandleSet(hue) error = %v, want ErrUnsupportedProperty", err)
	}
}
