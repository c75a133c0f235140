package adapter

import (
	"context"
	"testing"

	"github.com/finlow/switchbridge/internal/ble"
	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/infrastructure/config"
)

func TestMeterBLERefresh(t *testing.T) {
	h := newHarness(t, false)
	dev := device.Device{
		ID:      "DDEEFF001122",
		Type:    "Meter",
		Name:    "Bedroom Meter",
		Address: "dd:ee:ff:00:11:22",
		Mode:    device.ModeBLE,
	}
	h.addDevice(t, dev, device.Status{})

	h.scanner.adv = &ble.Advertisement{
		Model:       'T',
		Battery:     60,
		Temperature: 21.5,
		Humidity:    45,
	}

	m := NewMeter(dev, config.DeviceConfig{ScanDuration: 1}, h.deps)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	status, _ := h.registry.Status(dev.ID)
	if status.Temperature != 21.5 {
		t.Errorf("Temperature = %v, want 21.5", status.Temperature)
	}
	if status.Humidity != 45 {
		t.Errorf("Humidity = %d, want 45", status.Humidity)
	}
	if status.BatteryLevel != 60 {
		t.Errorf("BatteryLevel = %d, want 60", status.BatteryLevel)
	}

	// Meters accept no commands.
	if err := m.Push(context.Background()); err != nil {
		t.Errorf("Push() error = %v, want nil no-op", err)
	}
	if m.Moving() {
		t.Error("Moving() = true for a meter")
	}
}

func TestMeterCloudRefresh(t *testing.T) {
	h := newHarness(t, true)
	dev := device.Device{
		ID:     "DDEEFF001122",
		Type:   "Meter",
		Name:   "Bedroom Meter",
		Mode:   device.ModeCloud,
	}
	h.addDevice(t, dev, device.Status{})

	h.cloud.status.Temperature = 19.2
	h.cloud.status.Humidity = 55

	m := NewMeter(dev, config.DeviceConfig{}, h.deps)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	status, _ := h.registry.Status(dev.ID)
	if status.Temperature != 19.2 {
		t.Errorf("Temperature = %v, want 19.2", status.Temperature)
	}
	if status.Humidity != 55 {
		t.Errorf("Humidity = %d, want 55", status.Humidity)
	}
}
