package engine

import "github.com/finlow/switchbridge/internal/device"

// Transport identifies the path chosen for a read or push.
type Transport int

const (
	// UseNeither means the operation is skipped; for disabled devices
	// the adapter republishes last-known safe defaults instead.
	UseNeither Transport = iota

	// UseBLE routes the operation over the local radio.
	UseBLE

	// UseCloud routes the operation over the vendor HTTP API.
	UseCloud
)

// String returns the transport name used in logs.
func (t Transport) String() string {
	switch t {
	case UseBLE:
		return "ble"
	case UseCloud:
		return "cloud"
	default:
		return "none"
	}
}

// SelectTransport decides the primary transport for an operation.
//
// Pure decision, no side effects. Priority:
//  1. Disabled mode -> UseNeither.
//  2. Any mode permitting BLE prefers BLE.
//  3. Cloud-only mode requires credentials; without them the operation
//     is a hard no-op, not a retry.
func SelectTransport(mode device.ConnectionMode, cloudAvailable bool) Transport {
	switch {
	case mode.Disabled():
		return UseNeither
	case mode.UsesBLE():
		return UseBLE
	case mode.UsesCloud() && cloudAvailable:
		return UseCloud
	default:
		return UseNeither
	}
}

// FallbackTransport decides where to go after a failed BLE attempt.
//
// Only dual-mode devices with cloud credentials fall back; everything
// else gives up for this cycle.
func FallbackTransport(mode device.ConnectionMode, cloudAvailable bool) Transport {
	if mode.UsesBLE() && mode.UsesCloud() && cloudAvailable {
		return UseCloud
	}
	return UseNeither
}
