package adapter

import (
	"fmt"

	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/engine"
	"github.com/finlow/switchbridge/internal/infrastructure/config"
)

// New builds the adapter for a device type.
//
// Adapters with writable properties also implement Setter; callers
// type-assert when wiring set-topic subscriptions.
func New(dev device.Device, cfg config.DeviceConfig, deps Deps) (engine.Capability, error) {
	switch dev.Type {
	case "Curtain", "Curtain3":
		return NewCurtain(dev, cfg, deps), nil
	case "Blind Tilt":
		return NewBlindTilt(dev, cfg, deps), nil
	case "Plug", "Plug Mini (US)", "Plug Mini (JP)":
		return NewPlug(dev, cfg, deps), nil
	case "Color Bulb", "Strip Light":
		return NewBulb(dev, cfg, deps), nil
	case "Meter", "MeterPlus", "Meter Plus (US)", "Meter Plus (JP)":
		return NewMeter(dev, cfg, deps), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDevice, dev.Type)
	}
}
