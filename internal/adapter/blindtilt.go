package adapter

import (
	"fmt"

	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/infrastructure/config"
)

// Blind tilt mapping modes. The slats tilt through 0 (fully closed
// downward) over 50 (fully open, horizontal) to 100 (fully closed
// upward); each mode defines how that arc maps onto the host's one
// dimensional open/closed position.
const (
	TiltOnlyUp       = "only_up"
	TiltOnlyDown     = "only_down"
	TiltUpAndDown    = "up_and_down"
	TiltDownAndUp    = "down_and_up"
	TiltForDirection = "use_tilt_for_direction"
)

// TiltToHost maps a raw tilt reading to a host position.
func TiltToHost(mode string, tilt int) int {
	tilt = clamp(tilt, 0, 100)

	switch mode {
	case TiltOnlyUp:
		// Closed at the top of the arc, open at horizontal.
		if tilt < 50 {
			tilt = 50
		}
		return clamp(2*(100-tilt), 0, 100)
	case TiltOnlyDown:
		// Closed at the bottom of the arc, open at horizontal.
		if tilt > 50 {
			tilt = 50
		}
		return clamp(2*tilt, 0, 100)
	case TiltForDirection:
		return tilt
	default: // TiltUpAndDown, TiltDownAndUp
		// Open at horizontal, closed at either end.
		delta := tilt - 50
		if delta < 0 {
			delta = -delta
		}
		return clamp(100-2*delta, 0, 100)
	}
}

// HostToTilt maps a host target back to a raw tilt. For the symmetric
// modes the closing direction is the mode's first-named side.
func HostToTilt(mode string, host int) int {
	host = clamp(host, 0, 100)

	switch mode {
	case TiltOnlyUp:
		return clamp(100-host/2, 0, 100)
	case TiltOnlyDown:
		return clamp(host/2, 0, 100)
	case TiltForDirection:
		return host
	case TiltDownAndUp:
		return clamp(50-(100-host)/2, 0, 100)
	default: // TiltUpAndDown
		return clamp(50+(100-host)/2, 0, 100)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NewBlindTilt builds a covering adapter with the tilt mapping hooks.
//
// Everything else (polling, pushes, the state machine, light sensor)
// behaves exactly like a curtain.
func NewBlindTilt(dev device.Device, cfg config.DeviceConfig, deps Deps) *Curtain {
	mode := TiltUpAndDown
	if cfg.Curtain != nil && cfg.Curtain.Mode != "" {
		mode = cfg.Curtain.Mode
	}

	c := NewCurtain(dev, cfg, deps)
	c.toHost = func(raw int) int { return TiltToHost(mode, raw) }
	c.toWire = func(host int) int { return HostToTilt(mode, host) }
	c.cloudParam = tiltCloudParam
	return c
}

// tiltCloudParam renders the blind tilt setPosition parameter:
// "<direction>;<openness>", where direction names the side of the arc
// the slats sit on and openness is 100 at horizontal, 0 fully closed.
func tiltCloudParam(_ string, wire int) string {
	direction := "down"
	if wire >= 50 {
		direction = "up"
	}
	delta := wire - 50
	if delta < 0 {
		delta = -delta
	}
	return fmt.Sprintf("%s;%d", direction, clamp(100-2*delta, 0, 100))
}
