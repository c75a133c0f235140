package engine

import "github.com/finlow/switchbridge/internal/device"

// NormalizePosition converts a raw vendor position to the host
// convention and back.
//
// The vendor reports 0 as fully open and 100 as fully closed; the host
// convention is the opposite. The flip is its own inverse, so the same
// function converts host targets to wire positions on push. Out-of-range
// raw values are clamped first.
func NormalizePosition(raw int) int {
	if raw < 0 {
		raw = 0
	}
	if raw > 100 {
		raw = 100
	}
	return 100 - raw
}

// ClampPosition snaps a normalized position to its rail ends.
//
// Mechanical slack keeps some units from ever reporting exactly 0 or
// 100. Positions at or below setMin clamp to 0, at or above setMax
// clamp to 100. A zero setMin or setMax disables that side.
func ClampPosition(position, setMin, setMax int) int {
	if setMin > 0 && position <= setMin {
		return 0
	}
	if setMax > 0 && position >= setMax {
		return 100
	}
	return position
}

// EvaluateMotion derives the movement state from normalized positions.
//
// target above current means the position value is rising (Increasing),
// below means falling (Decreasing), equal means at rest.
func EvaluateMotion(target, current int) device.MotionState {
	switch {
	case target > current:
		return device.MotionIncreasing
	case target < current:
		return device.MotionDecreasing
	default:
		return device.MotionStopped
	}
}

// PositionModeName maps a configured motor mode to its display name.
func PositionModeName(mode string) string {
	switch mode {
	case "1":
		return "silent"
	case "0":
		return "performance"
	default:
		return "default"
	}
}

// SelectPositionMode picks the motor-speed mode for a push.
//
// Targets above the midpoint use the configured open mode, the rest the
// close mode. An unset mode becomes the vendor's default wire value.
func SelectPositionMode(target int, openMode, closeMode string) string {
	mode := closeMode
	if target > 50 {
		mode = openMode
	}
	if mode == "" {
		mode = "ff"
	}
	return mode
}
