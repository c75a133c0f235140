package adapter

import (
	"testing"

	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/infrastructure/logging"
)

func TestTopicType(t *testing.T) {
	tests := []struct {
		deviceType string
		want       string
	}{
		{"Curtain", "curtain"},
		{"Blind Tilt", "blind_tilt"},
		{"Plug Mini (US)", "plug_mini_us"},
		{"Color Bulb", "color_bulb"},
	}

	for _, tt := range tests {
		if got := TopicType(tt.deviceType); got != tt.want {
			t.Errorf("TopicType(%q) = %q, want %q", tt.deviceType, got, tt.want)
		}
	}
}

func TestPropertySyncPublishesOnlyChanges(t *testing.T) {
	publisher := newFakePublisher()
	sync := NewPropertySync(publisher, logging.Default())
	dev := curtainDevice(device.ModeBoth)

	prev := device.Status{CurrentPosition: 50, TargetPosition: 50, BatteryLevel: 80, Online: true}
	next := prev
	next.CurrentPosition = 60

	sync.Sync(dev, prev, next, false)

	if got := publisher.publishCount(); got != 1 {
		t.Errorf("publishes = %d, want 1 (only the changed property)", got)
	}
	if v, ok := publisher.get("current_position"); !ok || v != "60" {
		t.Errorf("current_position = %q, want 60", v)
	}
}

func TestPropertySyncForcePublishesEverything(t *testing.T) {
	publisher := newFakePublisher()
	sync := NewPropertySync(publisher, logging.Default())
	dev := curtainDevice(device.ModeBoth)

	status := device.Status{CurrentPosition: 50, Online: true}
	sync.Sync(dev, status, status, true)

	if got := publisher.publishCount(); got == 0 {
		t.Error("force sync published nothing")
	}
	if v, ok := publisher.get("online"); !ok || v != "true" {
		t.Errorf("online = %q, want true", v)
	}
	if v, ok := publisher.get("motion"); !ok || v != "stopped" {
		t.Errorf("motion = %q, want stopped", v)
	}
}

func TestPropertySyncPowerFormatting(t *testing.T) {
	publisher := newFakePublisher()
	sync := NewPropertySync(publisher, logging.Default())
	dev := device.Device{ID: "P1", Type: "Plug", Address: "aa:bb:cc:dd:ee:ff"}

	prev := device.Status{PowerOn: false}
	next := device.Status{PowerOn: true}
	sync.Sync(dev, prev, next, false)

	if v, ok := publisher.get("power"); !ok || v != "on" {
		t.Errorf("power = %q, want on", v)
	}
}
