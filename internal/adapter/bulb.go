package adapter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/engine"
	"github.com/finlow/switchbridge/internal/infrastructure/config"
	"github.com/finlow/switchbridge/internal/openapi"
)

// Bulb drives a color bulb or light strip: power plus brightness.
//
// Light state is cloud-read; pushes go over the cloud with BLE power
// commands as the radio path.
type Bulb struct {
	base

	mu             sync.Mutex
	lastPower      bool
	lastBrightness int
	hasPushed      bool
}

// NewBulb builds a light adapter.
func NewBulb(dev device.Device, cfg config.DeviceConfig, deps Deps) *Bulb {
	return &Bulb{base: newBase(dev, cfg, deps)}
}

// Moving always reports false; lights have no motion.
func (b *Bulb) Moving() bool { return false }

// PublishDefaults republishes last-known safe state.
func (b *Bulb) PublishDefaults(ctx context.Context) error {
	return b.publishDefaults(ctx)
}

// HandleSet accepts power ("on"/"off") and brightness (0..100).
func (b *Bulb) HandleSet(property, value string) error {
	switch property {
	case "power":
		var on bool
		switch strings.ToLower(value) {
		case "on", "true", "1":
			on = true
		case "off", "false", "0":
			on = false
		default:
			return fmt.Errorf("%w: power %q", ErrInvalidValue, value)
		}
		return b.set(func(s *device.Status) { s.PowerOn = on })

	case "brightness":
		level, err := strconv.Atoi(value)
		if err != nil || level < 0 || level > 100 {
			return fmt.Errorf("%w: brightness %q", ErrInvalidValue, value)
		}
		return b.set(func(s *device.Status) {
			s.Brightness = level
			s.PowerOn = level > 0
		})

	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProperty, property)
	}
}

func (b *Bulb) set(mutate func(*device.Status)) error {
	prev, err := b.deps.Registry.Status(b.dev.ID)
	if err != nil {
		return err
	}
	next, err := b.deps.Registry.UpdateStatus(b.dev.ID, mutate)
	if err != nil {
		return err
	}
	b.deps.Sync.Sync(b.dev, prev, next, false)
	return nil
}

// Refresh reads current state from the cloud.
func (b *Bulb) Refresh(ctx context.Context) error {
	transport := b.transportFor()
	if transport == engine.UseBLE {
		if b.cloudAvailable() {
			transport = engine.UseCloud
		} else {
			b.logger.Debug("no readable transport for light status")
			return nil
		}
	}
	if transport != engine.UseCloud {
		b.logger.Error("no usable transport for refresh", "mode", b.dev.Mode)
		return nil
	}

	status, code, err := b.deps.Cloud.DeviceStatus(ctx, b.dev.ID)
	if err != nil {
		b.recordTransport(engine.UseCloud, "refresh", false)
		return err
	}
	b.recordTransport(engine.UseCloud, "refresh", true)

	if !b.interpretCloudCode(ctx, code).OK() {
		return nil
	}

	brightness, _ := strconv.Atoi(status.Brightness)

	_, err = b.applyStatus(ctx, func(s *device.Status) {
		s.PowerOn = strings.EqualFold(status.Power, "on")
		s.Brightness = brightness
		s.Online = true
	})
	return err
}

// Push applies pending power and brightness.
func (b *Bulb) Push(ctx context.Context) error {
	if b.pushSuspended() {
		return nil
	}

	status, err := b.deps.Registry.Status(b.dev.ID)
	if err != nil {
		return err
	}

	b.mu.Lock()
	cached := b.hasPushed &&
		b.lastPower == status.PowerOn &&
		b.lastBrightness == status.Brightness
	b.mu.Unlock()
	if cached && !b.cfg.DisableCaching {
		b.logger.Debug("skipping redundant push",
			"on", status.PowerOn, "brightness", status.Brightness)
		return nil
	}

	if err := b.pushCloudState(ctx, status); err != nil {
		return err
	}

	b.mu.Lock()
	b.lastPower = status.PowerOn
	b.lastBrightness = status.Brightness
	b.hasPushed = true
	b.mu.Unlock()

	b.logger.Info("light pushed", "on", status.PowerOn, "brightness", status.Brightness)
	return nil
}

func (b *Bulb) pushCloudState(ctx context.Context, status device.Status) error {
	if !b.cloudAvailable() {
		// Radio power toggles still work without credentials.
		if b.deps.Control != nil && b.dev.Mode.UsesBLE() {
			if status.PowerOn {
				return b.deps.Control.TurnOn(ctx, b.dev.Address)
			}
			return b.deps.Control.TurnOff(ctx, b.dev.Address)
		}
		b.logger.Error("no usable transport for push", "mode", b.dev.Mode)
		return nil
	}

	var cmd openapi.Command
	switch {
	case !status.PowerOn:
		cmd = openapi.NewCommand("turnOff", "")
	case status.Brightness > 0:
		cmd = openapi.NewCommand("setBrightness", strconv.Itoa(status.Brightness))
	default:
		cmd = openapi.NewCommand("turnOn", "")
	}

	code, err := b.deps.Cloud.SendCommand(ctx, b.dev.ID, cmd)
	if err != nil {
		b.recordTransport(engine.UseCloud, "push", false)
		return err
	}
	b.recordTransport(engine.UseCloud, "push", true)
	b.interpretCloudCode(ctx, code)
	return nil
}
