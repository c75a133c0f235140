// Package mqtt provides MQTT client connectivity for switchbridge.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Property publishing with QoS guarantees and retained messages
//   - Set-command subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//
// # Architecture
//
// The bridge publishes every normalized device property to
// switchbridge/{deviceType}/{mac}/{property} (retained), and accepts host
// desired-value writes on switchbridge/{deviceType}/{mac}/set/{property}.
// The broker decouples the bridge from whatever host accessory registry
// consumes the properties.
//
//	host accessory registry ↔ MQTT broker ↔ switchbridge ↔ devices (BLE/cloud)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.DeviceProperty("curtain", mac, "current_position")
//	client.PublishRetained(topic, []byte("42"))
package mqtt
