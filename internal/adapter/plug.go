package adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/engine"
	"github.com/finlow/switchbridge/internal/infrastructure/config"
	"github.com/finlow/switchbridge/internal/openapi"
)

// Plug drives a switched outlet.
//
// Status reads come from the cloud; the BLE broadcast for plugs does
// not carry usable state, so BLE-selected reads go straight to the
// fallback. Pushes are turnOn/turnOff over either transport.
type Plug struct {
	base

	mu         sync.Mutex
	lastPushed bool
	hasPushed  bool
}

// NewPlug builds an outlet adapter.
func NewPlug(dev device.Device, cfg config.DeviceConfig, deps Deps) *Plug {
	return &Plug{base: newBase(dev, cfg, deps)}
}

// Moving always reports false; outlets have no motion.
func (p *Plug) Moving() bool { return false }

// PublishDefaults republishes last-known safe state.
func (p *Plug) PublishDefaults(ctx context.Context) error {
	return p.publishDefaults(ctx)
}

// HandleSet accepts the power property: "on"/"off" or "true"/"false".
func (p *Plug) HandleSet(property, value string) error {
	if property != "power" {
		return fmt.Errorf("%w: %q", ErrUnsupportedProperty, property)
	}

	var on bool
	switch strings.ToLower(value) {
	case "on", "true", "1":
		on = true
	case "off", "false", "0":
		on = false
	default:
		return fmt.Errorf("%w: power %q", ErrInvalidValue, value)
	}

	prev, err := p.deps.Registry.Status(p.dev.ID)
	if err != nil {
		return err
	}
	next, err := p.deps.Registry.UpdateStatus(p.dev.ID, func(s *device.Status) {
		s.PowerOn = on
	})
	if err != nil {
		return err
	}
	p.deps.Sync.Sync(p.dev, prev, next, false)

	p.logger.Info("power set", "on", on)
	return nil
}

// Refresh reads current state from the cloud.
func (p *Plug) Refresh(ctx context.Context) error {
	transport := p.transportFor()
	if transport == engine.UseBLE {
		// Plug broadcasts carry no state; use the cloud when we can.
		if p.cloudAvailable() {
			transport = engine.UseCloud
		} else {
			p.logger.Debug("no readable transport for plug status")
			return nil
		}
	}
	if transport != engine.UseCloud {
		p.logger.Error("no usable transport for refresh", "mode", p.dev.Mode)
		return nil
	}

	status, code, err := p.deps.Cloud.DeviceStatus(ctx, p.dev.ID)
	if err != nil {
		p.recordTransport(engine.UseCloud, "refresh", false)
		return err
	}
	p.recordTransport(engine.UseCloud, "refresh", true)

	if !p.interpretCloudCode(ctx, code).OK() {
		return nil
	}

	_, err = p.applyStatus(ctx, func(s *device.Status) {
		s.PowerOn = strings.EqualFold(status.Power, "on")
		s.Online = true
	})
	return err
}

// Push applies the pending power state.
func (p *Plug) Push(ctx context.Context) error {
	if p.pushSuspended() {
		return nil
	}

	status, err := p.deps.Registry.Status(p.dev.ID)
	if err != nil {
		return err
	}
	on := status.PowerOn

	p.mu.Lock()
	cached := p.hasPushed && p.lastPushed == on
	p.mu.Unlock()
	if cached && !p.cfg.DisableCaching {
		p.logger.Debug("skipping redundant push", "on", on)
		return nil
	}

	switch p.transportFor() {
	case engine.UseBLE:
		if err := p.pushBLE(ctx, on); err != nil {
			p.recordTransport(engine.UseBLE, "push", false)
			if engine.FallbackTransport(p.dev.Mode, p.cloudAvailable()) == engine.UseCloud {
				p.logger.Info("radio push failed, falling back to cloud", "error", err)
				if err := p.pushCloud(ctx, on); err != nil {
					return err
				}
				break
			}
			return err
		}
		p.recordTransport(engine.UseBLE, "push", true)
	case engine.UseCloud:
		if err := p.pushCloud(ctx, on); err != nil {
			return err
		}
	default:
		p.logger.Error("no usable transport for push", "mode", p.dev.Mode)
		return nil
	}

	p.mu.Lock()
	p.lastPushed = on
	p.hasPushed = true
	p.mu.Unlock()

	p.logger.Info("power pushed", "on", on)
	return nil
}

func (p *Plug) pushBLE(ctx context.Context, on bool) error {
	if p.deps.Control == nil {
		return engine.ErrNoTransport
	}
	if on {
		return p.deps.Control.TurnOn(ctx, p.dev.Address)
	}
	return p.deps.Control.TurnOff(ctx, p.dev.Address)
}

func (p *Plug) pushCloud(ctx context.Context, on bool) error {
	command := "turnOff"
	if on {
		command = "turnOn"
	}

	code, err := p.deps.Cloud.SendCommand(ctx, p.dev.ID, openapi.NewCommand(command, ""))
	if err != nil {
		p.recordTransport(engine.UseCloud, "push", false)
		return err
	}
	p.recordTransport(engine.UseCloud, "push", true)
	p.interpretCloudCode(ctx, code)
	return nil
}
