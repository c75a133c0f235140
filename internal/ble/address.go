package ble

import (
	"fmt"
	"strings"
)

// AddressFromDeviceID converts the vendor's hex device ID into the MAC
// address broadcast over BLE.
//
// The vendor API reports device IDs as 12 uppercase hex characters with
// no separators. The radio reports the same device as a lowercase
// colon-separated MAC. Example: "C12E453E2008" -> "c1:2e:45:3e:20:08".
//
// Returns ErrInvalidDeviceID for IDs that are not 12 hex characters.
func AddressFromDeviceID(deviceID string) (string, error) {
	id := strings.ToLower(strings.ReplaceAll(deviceID, ":", ""))
	if len(id) != 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidDeviceID, deviceID)
	}
	for _, c := range id {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: %q", ErrInvalidDeviceID, deviceID)
		}
	}

	pairs := make([]string, 0, 6)
	for i := 0; i < 12; i += 2 {
		pairs = append(pairs, id[i:i+2])
	}
	return strings.Join(pairs, ":"), nil
}

// ModelCode returns the single-byte model identifier a device type
// broadcasts in its service data.
//
// Unknown types return 0, which matches nothing.
func ModelCode(deviceType string) byte {
	switch deviceType {
	case "Curtain", "Curtain3":
		return 'c'
	case "Blind Tilt":
		return 'x'
	case "Color Bulb":
		return 'u'
	case "Strip Light":
		return 'r'
	case "Plug", "Plug Mini (US)", "Plug Mini (JP)":
		return 'g'
	case "Meter":
		return 'T'
	case "MeterPlus", "Meter Plus (US)", "Meter Plus (JP)":
		return 'i'
	case "Bot":
		return 'H'
	case "Humidifier":
		return 'e'
	case "Motion Sensor":
		return 's'
	case "Contact Sensor":
		return 'd'
	default:
		return 0
	}
}
