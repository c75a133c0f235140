package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteStatusSample records one normalized-status field for a device.
//
// This is the primary method for recording device state history.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: Vendor device identifier
//   - deviceType: Model tag ("Curtain", "Plug", ...)
//   - field: The normalized property name (e.g., "current_position")
//   - value: The numeric value to record
//
// Example:
//
//	client.WriteStatusSample("F7D9...", "Curtain", "current_position", 42)
//	client.WriteStatusSample("F7D9...", "Curtain", "battery", 88)
func (c *Client) WriteStatusSample(deviceID, deviceType, field string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_status",
		map[string]string{
			"device_id":   deviceID,
			"device_type": deviceType,
		},
		map[string]interface{}{
			field: value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteTransportEvent records a transport selection or failure event.
//
// Used for diagnosing flaky BLE reception and cloud fallback frequency.
//
// Parameters:
//   - deviceID: Device identifier
//   - transport: "ble", "cloud", or "none"
//   - operation: "refresh" or "push"
//   - success: Whether the operation succeeded
func (c *Client) WriteTransportEvent(deviceID, transport, operation string, success bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"transport_events",
		map[string]string{
			"device_id": deviceID,
			"transport": transport,
			"operation": operation,
		},
		map[string]interface{}{
			"success": success,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
