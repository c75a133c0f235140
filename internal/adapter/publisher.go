package adapter

import (
	"strconv"
	"strings"

	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/infrastructure/logging"
	"github.com/finlow/switchbridge/internal/infrastructure/mqtt"
)

// Publisher delivers one property value to the host bus.
//
// Implementations must be safe for concurrent use; every device worker
// publishes through the same instance.
type Publisher interface {
	PublishProperty(deviceType, mac, property, value string) error
}

// MQTTPublisher publishes properties retained on the switchbridge
// topic scheme.
type MQTTPublisher struct {
	client *mqtt.Client
	topics mqtt.Topics
}

// NewMQTTPublisher wraps a connected MQTT client.
func NewMQTTPublisher(client *mqtt.Client) *MQTTPublisher {
	return &MQTTPublisher{client: client}
}

// PublishProperty publishes a retained property value.
func (p *MQTTPublisher) PublishProperty(deviceType, mac, property, value string) error {
	topic := p.topics.DeviceProperty(deviceType, mac, property)
	return p.client.PublishString(topic, value, 1, true)
}

// PropertySync publishes the properties that changed between two status
// snapshots.
//
// Publishing every property on every poll would flood the bus with
// retained duplicates; the host only needs transitions. The first sync
// after startup publishes everything.
type PropertySync struct {
	publisher Publisher
	logger    *logging.Logger
}

// NewPropertySync creates a sync layer over a publisher.
func NewPropertySync(publisher Publisher, logger *logging.Logger) *PropertySync {
	return &PropertySync{
		publisher: publisher,
		logger:    logger.With("component", "propertysync"),
	}
}

// TopicType returns the lowercased model tag used in topics.
func TopicType(deviceType string) string {
	t := strings.ToLower(deviceType)
	t = strings.ReplaceAll(t, " ", "_")
	t = strings.ReplaceAll(t, "(", "")
	t = strings.ReplaceAll(t, ")", "")
	return t
}

// Sync publishes every property whose value differs between prev and
// next. Pass force to publish all properties regardless.
func (s *PropertySync) Sync(dev device.Device, prev, next device.Status, force bool) {
	topicType := TopicType(dev.Type)

	publish := func(property, prevVal, nextVal string) {
		if !force && prevVal == nextVal {
			return
		}
		if err := s.publisher.PublishProperty(topicType, dev.Address, property, nextVal); err != nil {
			s.logger.Error("property publish failed",
				"device", dev.ID, "property", property, "error", err)
		}
	}

	publish("current_position",
		strconv.Itoa(prev.CurrentPosition), strconv.Itoa(next.CurrentPosition))
	publish("target_position",
		strconv.Itoa(prev.TargetPosition), strconv.Itoa(next.TargetPosition))
	publish("motion", prev.Motion.String(), next.Motion.String())
	publish("battery_level",
		strconv.Itoa(prev.BatteryLevel), strconv.Itoa(next.BatteryLevel))
	publish("low_battery",
		strconv.FormatBool(prev.LowBattery), strconv.FormatBool(next.LowBattery))
	publish("ambient_light",
		formatFloat(prev.AmbientLight), formatFloat(next.AmbientLight))
	publish("power", powerString(prev.PowerOn), powerString(next.PowerOn))
	publish("brightness",
		strconv.Itoa(prev.Brightness), strconv.Itoa(next.Brightness))
	publish("temperature",
		formatFloat(prev.Temperature), formatFloat(next.Temperature))
	publish("humidity", strconv.Itoa(prev.Humidity), strconv.Itoa(next.Humidity))
	publish("online", strconv.FormatBool(prev.Online), strconv.FormatBool(next.Online))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func powerString(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
