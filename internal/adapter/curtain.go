package adapter

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/engine"
	"github.com/finlow/switchbridge/internal/infrastructure/config"
	"github.com/finlow/switchbridge/internal/openapi"
)

// Curtain drives a motorized covering.
//
// Raw vendor positions are inverted relative to the host convention;
// every transport read and write flips exactly once through the
// position hooks. Blind tilts reuse this adapter with different hooks.
type Curtain struct {
	base

	// toHost converts a raw wire position to the host convention;
	// toWire converts a host target back. Both default to the plain
	// inversion.
	toHost func(raw int) int
	toWire func(host int) int

	// cloudParam renders the setPosition parameter for the cloud push.
	// Curtains use "0,<mode>,<position>"; blind tilts override.
	cloudParam func(mode string, wire int) string

	mu             sync.Mutex
	awaitingTarget bool
	targetTimer    *time.Timer
	lastPushed     int
	hasPushed      bool
}

// NewCurtain builds a covering adapter.
func NewCurtain(dev device.Device, cfg config.DeviceConfig, deps Deps) *Curtain {
	c := &Curtain{base: newBase(dev, cfg, deps)}
	c.toHost = c.normalizeAndClamp
	c.toWire = engine.NormalizePosition
	c.cloudParam = func(mode string, wire int) string {
		return fmt.Sprintf("0,%s,%d", mode, wire)
	}
	return c
}

func (c *Curtain) curtainCfg() config.CurtainConfig {
	if c.cfg.Curtain != nil {
		return *c.cfg.Curtain
	}
	return config.CurtainConfig{}
}

func (c *Curtain) normalizeAndClamp(raw int) int {
	cc := c.curtainCfg()
	return engine.ClampPosition(engine.NormalizePosition(raw), cc.SetMin, cc.SetMax)
}

// Moving reports whether the covering is believed in motion.
func (c *Curtain) Moving() bool {
	status, err := c.deps.Registry.Status(c.dev.ID)
	if err != nil {
		return false
	}
	return status.Motion != device.MotionStopped
}

// PublishDefaults republishes last-known safe state.
func (c *Curtain) PublishDefaults(ctx context.Context) error {
	return c.publishDefaults(ctx)
}

// HandleSet accepts host-published desired values.
//
// target_position arms the awaiting-target flag and its expiry timer;
// short moves on some units never report an explicit stop, so the flag
// self-clears after the update-rate window and later polls are trusted
// again.
func (c *Curtain) HandleSet(property, value string) error {
	if property != "target_position" {
		return fmt.Errorf("%w: %q", ErrUnsupportedProperty, property)
	}

	target, err := strconv.Atoi(value)
	if err != nil || target < 0 || target > 100 {
		return fmt.Errorf("%w: target_position %q", ErrInvalidValue, value)
	}

	prev, err := c.deps.Registry.Status(c.dev.ID)
	if err != nil {
		return err
	}

	motion := engine.EvaluateMotion(target, prev.CurrentPosition)
	next, err := c.deps.Registry.UpdateStatus(c.dev.ID, func(s *device.Status) {
		s.TargetPosition = target
		s.Motion = motion
	})
	if err != nil {
		return err
	}
	c.deps.Sync.Sync(c.dev, prev, next, false)

	c.mu.Lock()
	c.awaitingTarget = motion != device.MotionStopped
	if c.targetTimer != nil {
		c.targetTimer.Stop()
	}
	if c.awaitingTarget {
		c.targetTimer = time.AfterFunc(c.cfg.UpdateInterval(), c.expireTarget)
	}
	c.mu.Unlock()

	c.logger.Info("target position set", "target", target, "motion", motion)
	return nil
}

// expireTarget clears the awaiting-target flag when no status read
// confirmed the stop within the update-rate window. Host-visible
// position is left alone; the next poll corrects it.
func (c *Curtain) expireTarget() {
	c.mu.Lock()
	c.awaitingTarget = false
	c.mu.Unlock()
	c.logger.Debug("awaiting target expired")
}

// Refresh reads current state over the selected transport.
func (c *Curtain) Refresh(ctx context.Context) error {
	switch c.transportFor() {
	case engine.UseBLE:
		if err := c.refreshBLE(ctx); err != nil {
			c.recordTransport(engine.UseBLE, "refresh", false)
			if engine.FallbackTransport(c.dev.Mode, c.cloudAvailable()) == engine.UseCloud {
				c.logger.Info("radio read failed, falling back to cloud", "error", err)
				return c.refreshCloud(ctx)
			}
			return err
		}
		c.recordTransport(engine.UseBLE, "refresh", true)
		return nil
	case engine.UseCloud:
		return c.refreshCloud(ctx)
	default:
		c.logger.Error("no usable transport for refresh", "mode", c.dev.Mode)
		return nil
	}
}

func (c *Curtain) refreshBLE(ctx context.Context) error {
	adv, err := c.scan(ctx)
	if err != nil {
		return err
	}

	cc := c.curtainCfg()
	current := c.toHost(adv.Position)
	awaiting := c.awaiting()

	_, err = c.applyStatus(ctx, func(s *device.Status) {
		s.CurrentPosition = current
		s.BatteryLevel = adv.Battery
		s.LowBattery = LowBattery(adv.Battery)
		s.Calibrated = adv.Calibrated
		s.Online = true

		if !cc.HideLightSensor {
			s.AmbientLight = LuxFromLevel(adv.LightLevel, cc.SetMinLux, cc.SetMaxLux)
		}

		c.settle(s, awaiting && adv.InMotion, current)
	})
	return err
}

func (c *Curtain) refreshCloud(ctx context.Context) error {
	status, code, err := c.deps.Cloud.DeviceStatus(ctx, c.dev.ID)
	if err != nil {
		c.recordTransport(engine.UseCloud, "refresh", false)
		return err
	}
	c.recordTransport(engine.UseCloud, "refresh", true)

	if !c.interpretCloudCode(ctx, code).OK() {
		return nil
	}

	cc := c.curtainCfg()
	current := c.toHost(status.SlidePosition)
	awaiting := c.awaiting()

	_, err = c.applyStatus(ctx, func(s *device.Status) {
		s.CurrentPosition = current
		s.Calibrated = status.Calibrate
		s.Online = true

		if !cc.HideLightSensor && status.Brightness != "" {
			s.AmbientLight = LuxFromBrightness(status.Brightness, cc.SetMinLux, cc.SetMaxLux)
		}

		c.settle(s, awaiting && status.Moving, current)
	})
	return err
}

// settle applies the position state machine to a fresh current reading.
//
// While a new target is awaited and the device reports motion, the
// state follows target versus current; otherwise the covering is at
// rest and target snaps to current.
func (c *Curtain) settle(s *device.Status, moving bool, current int) {
	if moving {
		s.Motion = engine.EvaluateMotion(s.TargetPosition, current)
		if s.Motion == device.MotionStopped {
			c.clearAwaiting()
		}
		return
	}
	s.TargetPosition = current
	s.Motion = device.MotionStopped
	c.clearAwaiting()
}

func (c *Curtain) awaiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awaitingTarget
}

func (c *Curtain) clearAwaiting() {
	c.mu.Lock()
	c.awaitingTarget = false
	if c.targetTimer != nil {
		c.targetTimer.Stop()
	}
	c.mu.Unlock()
}

// Push applies the pending target position.
func (c *Curtain) Push(ctx context.Context) error {
	if c.pushSuspended() {
		return nil
	}

	status, err := c.deps.Registry.Status(c.dev.ID)
	if err != nil {
		return err
	}
	target := status.TargetPosition

	c.mu.Lock()
	cached := c.hasPushed && c.lastPushed == target
	c.mu.Unlock()
	if cached && !c.cfg.DisableCaching {
		c.logger.Debug("skipping redundant push", "target", target)
		return nil
	}

	cc := c.curtainCfg()
	mode := engine.SelectPositionMode(target, cc.SetOpenMode, cc.SetCloseMode)
	wire := c.toWire(target)

	switch c.transportFor() {
	case engine.UseBLE:
		if err := c.pushBLE(ctx, mode, wire); err != nil {
			c.recordTransport(engine.UseBLE, "push", false)
			if engine.FallbackTransport(c.dev.Mode, c.cloudAvailable()) == engine.UseCloud {
				c.logger.Info("radio push failed, falling back to cloud", "error", err)
				if err := c.pushCloud(ctx, mode, wire); err != nil {
					return err
				}
				break
			}
			return err
		}
		c.recordTransport(engine.UseBLE, "push", true)
	case engine.UseCloud:
		if err := c.pushCloud(ctx, mode, wire); err != nil {
			return err
		}
	default:
		c.logger.Error("no usable transport for push", "mode", c.dev.Mode)
		return nil
	}

	c.mu.Lock()
	c.lastPushed = target
	c.hasPushed = true
	c.mu.Unlock()

	c.logger.Info("position pushed",
		"target", target,
		"motor_mode", engine.PositionModeName(mode))
	return nil
}

func (c *Curtain) pushBLE(ctx context.Context, mode string, wire int) error {
	if c.deps.Control == nil {
		return engine.ErrNoTransport
	}

	var modeByte byte = 0xff
	switch mode {
	case "1":
		modeByte = 0x01
	case "0":
		modeByte = 0x00
	}
	return c.deps.Control.RunToPosition(ctx, c.dev.Address, modeByte, wire)
}

func (c *Curtain) pushCloud(ctx context.Context, mode string, wire int) error {
	cmd := openapi.NewCommand("setPosition", c.cloudParam(mode, wire))
	code, err := c.deps.Cloud.SendCommand(ctx, c.dev.ID, cmd)
	if err != nil {
		c.recordTransport(engine.UseCloud, "push", false)
		return err
	}
	c.recordTransport(engine.UseCloud, "push", true)
	c.interpretCloudCode(ctx, code)
	return nil
}
