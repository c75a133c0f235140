package mqtt

import "fmt"

// Topic prefixes for the switchbridge MQTT namespace.
//
// Device topics use the scheme: switchbridge/{deviceType}/{mac}/{property}
// where deviceType is the lowercased vendor model tag ("curtain", "plug")
// and mac is the colon-separated radio address derived from the device ID.
const (
	// TopicPrefix is the base for all switchbridge topics.
	TopicPrefix = "switchbridge"

	// TopicPrefixBridge is the base for bridge lifecycle topics.
	TopicPrefixBridge = "switchbridge/bridge"
)

// Topics provides builders for switchbridge MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	posTopic := topics.DeviceProperty("curtain", "ab:cd:ef:01:23:45", "current_position")
//	// Returns: "switchbridge/curtain/ab:cd:ef:01:23:45/current_position"
type Topics struct{}

// DeviceProperty returns the topic for one normalized property of a device.
//
// Example: switchbridge/curtain/ab:cd:ef:01:23:45/current_position
func (Topics) DeviceProperty(deviceType, mac, property string) string {
	return fmt.Sprintf("%s/%s/%s/%s", TopicPrefix, deviceType, mac, property)
}

// DeviceSet returns the topic on which the host publishes a desired value
// for one property of a device.
//
// Example: switchbridge/curtain/ab:cd:ef:01:23:45/set/target_position
func (Topics) DeviceSet(deviceType, mac, property string) string {
	return fmt.Sprintf("%s/%s/%s/set/%s", TopicPrefix, deviceType, mac, property)
}

// DeviceSetPattern returns a pattern matching all set commands for a device.
//
// Pattern: switchbridge/curtain/ab:cd:ef:01:23:45/set/+
func (Topics) DeviceSetPattern(deviceType, mac string) string {
	return fmt.Sprintf("%s/%s/%s/set/+", TopicPrefix, deviceType, mac)
}

// BridgeStatus returns the bridge lifecycle status topic (also the LWT topic).
//
// Example: switchbridge/bridge/status
func (Topics) BridgeStatus() string {
	return TopicPrefixBridge + "/status"
}

// BridgeHealth returns the periodic bridge health topic.
//
// Example: switchbridge/bridge/health
func (Topics) BridgeHealth() string {
	return TopicPrefixBridge + "/health"
}

// AllDeviceProperties returns a pattern matching every published property.
//
// Pattern: switchbridge/+/+/+
func (Topics) AllDeviceProperties() string {
	return TopicPrefix + "/+/+/+"
}
