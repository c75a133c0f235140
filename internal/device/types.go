package device

import (
	"fmt"
	"time"
)

// ConnectionMode selects which transports a device may use.
type ConnectionMode string

const (
	// ModeBLE restricts the device to the local radio.
	ModeBLE ConnectionMode = "BLE"

	// ModeCloud restricts the device to the vendor cloud API.
	ModeCloud ConnectionMode = "OpenAPI"

	// ModeBoth prefers BLE with cloud fallback.
	ModeBoth ConnectionMode = "BLE/OpenAPI"

	// ModeDisabled removes the device from all transport traffic; the
	// bridge republishes last-known safe defaults instead.
	ModeDisabled ConnectionMode = "Disabled"
)

// ParseConnectionMode validates a configuration string.
func ParseConnectionMode(s string) (ConnectionMode, error) {
	switch ConnectionMode(s) {
	case ModeBLE, ModeCloud, ModeBoth, ModeDisabled:
		return ConnectionMode(s), nil
	case "":
		return ModeBoth, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// UsesBLE reports whether the mode permits radio reads and writes.
func (m ConnectionMode) UsesBLE() bool {
	return m == ModeBLE || m == ModeBoth
}

// UsesCloud reports whether the mode permits cloud reads and writes.
func (m ConnectionMode) UsesCloud() bool {
	return m == ModeCloud || m == ModeBoth
}

// Disabled reports whether the device is configured out of service.
func (m ConnectionMode) Disabled() bool {
	return m == ModeDisabled
}

// MotionState is the covering movement state exposed to the host.
type MotionState int

const (
	// MotionStopped means the covering is at rest.
	MotionStopped MotionState = iota

	// MotionIncreasing means the position value is rising.
	MotionIncreasing

	// MotionDecreasing means the position value is falling.
	MotionDecreasing
)

// String returns the host-facing name of the state.
func (m MotionState) String() string {
	switch m {
	case MotionIncreasing:
		return "increasing"
	case MotionDecreasing:
		return "decreasing"
	default:
		return "stopped"
	}
}

// Device is the static identity of a configured device.
type Device struct {
	// ID is the vendor device identifier (12 hex characters).
	ID string `json:"id"`

	// Type is the vendor model name ("Curtain", "Plug Mini (US)", ...).
	Type string `json:"type"`

	// Name is the human-readable label from configuration.
	Name string `json:"name"`

	// Address is the BLE MAC derived from ID, lowercase colon form.
	Address string `json:"address"`

	// Mode selects the permitted transports.
	Mode ConnectionMode `json:"mode"`

	// HubDeviceID identifies the relaying hub for cloud-only devices.
	HubDeviceID string `json:"hub_device_id,omitempty"`
}

// Status is the normalized mutable snapshot of a device.
//
// Positions follow the host convention: 0 is fully closed, 100 fully
// open, already inverted from the raw vendor value. Fields a device
// type does not support stay at their zero value.
type Status struct {
	CurrentPosition int         `json:"current_position"`
	TargetPosition  int         `json:"target_position"`
	Motion          MotionState `json:"motion"`
	AmbientLight    float64     `json:"ambient_light"`
	BatteryLevel    int         `json:"battery_level"`
	LowBattery      bool        `json:"low_battery"`
	PowerOn         bool        `json:"power_on"`
	Brightness      int         `json:"brightness"`
	Temperature     float64     `json:"temperature"`
	Humidity        int         `json:"humidity"`
	Calibrated      bool        `json:"calibrated"`
	Online          bool        `json:"online"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OfflineDefaults returns the safe state published when a device or its
// hub is unreachable: positions frozen where they were, motion stopped,
// marked offline.
func (s Status) OfflineDefaults() Status {
	out := s
	out.Motion = MotionStopped
	out.TargetPosition = s.CurrentPosition
	out.Online = false
	out.UpdatedAt = time.Now().UTC()
	return out
}
