package adapter

import (
	"context"

	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/engine"
	"github.com/finlow/switchbridge/internal/infrastructure/config"
)

// Meter reads a thermometer/hygrometer. Read-only: there is nothing to
// push, so the engine never signals it.
type Meter struct {
	base
}

// NewMeter builds a thermometer adapter.
func NewMeter(dev device.Device, cfg config.DeviceConfig, deps Deps) *Meter {
	return &Meter{base: newBase(dev, cfg, deps)}
}

// Moving always reports false.
func (m *Meter) Moving() bool { return false }

// PublishDefaults republishes last-known safe state.
func (m *Meter) PublishDefaults(ctx context.Context) error {
	return m.publishDefaults(ctx)
}

// Push is a no-op; meters accept no commands.
func (m *Meter) Push(context.Context) error { return nil }

// Refresh reads current readings over the selected transport.
func (m *Meter) Refresh(ctx context.Context) error {
	switch m.transportFor() {
	case engine.UseBLE:
		if err := m.refreshBLE(ctx); err != nil {
			m.recordTransport(engine.UseBLE, "refresh", false)
			if engine.FallbackTransport(m.dev.Mode, m.cloudAvailable()) == engine.UseCloud {
				m.logger.Info("radio read failed, falling back to cloud", "error", err)
				return m.refreshCloud(ctx)
			}
			return err
		}
		m.recordTransport(engine.UseBLE, "refresh", true)
		return nil
	case engine.UseCloud:
		return m.refreshCloud(ctx)
	default:
		m.logger.Error("no usable transport for refresh", "mode", m.dev.Mode)
		return nil
	}
}

func (m *Meter) refreshBLE(ctx context.Context) error {
	adv, err := m.scan(ctx)
	if err != nil {
		return err
	}

	_, err = m.applyStatus(ctx, func(s *device.Status) {
		s.Temperature = adv.Temperature
		s.Humidity = adv.Humidity
		s.BatteryLevel = adv.Battery
		s.LowBattery = LowBattery(adv.Battery)
		s.Online = true
	})
	return err
}

func (m *Meter) refreshCloud(ctx context.Context) error {
	status, code, err := m.deps.Cloud.DeviceStatus(ctx, m.dev.ID)
	if err != nil {
		m.recordTransport(engine.UseCloud, "refresh", false)
		return err
	}
	m.recordTransport(engine.UseCloud, "refresh", true)

	if !m.interpretCloudCode(ctx, code).OK() {
		return nil
	}

	_, err = m.applyStatus(ctx, func(s *device.Status) {
		s.Temperature = status.Temperature
		s.Humidity = status.Humidity
		s.Online = true
	})
	return err
}
