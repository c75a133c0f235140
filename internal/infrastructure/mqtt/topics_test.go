package mqtt

import "testing"

func TestTopics_DeviceProperty(t *testing.T) {
	topics := Topics{}

	got := topics.DeviceProperty("curtain", "c1:2e:45:3e:20:08", "current_position")
	want := "switchbridge/curtain/c1:2e:45:3e:20:08/current_position"
	if got != want {
		t.Errorf("DeviceProperty() = %q, want %q", got, want)
	}
}

func TestTopics_DeviceSet(t *testing.T) {
	topics := Topics{}

	got := topics.DeviceSet("curtain", "c1:2e:45:3e:20:08", "target_position")
	want := "switchbridge/curtain/c1:2e:45:3e:20:08/set/target_position"
	if got != want {
		t.Errorf("DeviceSet() = %q, want %q", got, want)
	}
}

func TestTopics_DeviceSetPattern(t *testing.T) {
	topics := Topics{}

	got := topics.DeviceSetPattern("plug_mini_us", "60:55:f9:30:a1:c4")
	want := "switchbridge/plug_mini_us/60:55:f9:30:a1:c4/set/+"
	if got != want {
		t.Errorf("DeviceSetPattern() = %q, want %q", got, want)
	}
}

func TestTopics_Bridge(t *testing.T) {
	topics := Topics{}

	if got := topics.BridgeStatus(); got != "switchbridge/bridge/status" {
		t.Errorf("BridgeStatus() = %q", got)
	}
	if got := topics.BridgeHealth(); got != "switchbridge/bridge/health" {
		t.Errorf("BridgeHealth() = %q", got)
	}
	if got := topics.AllDeviceProperties(); got != "switchbridge/+/+/+" {
		t.Errorf("AllDeviceProperties() = %q", got)
	}
}

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on empty client error = %v, want nil", err)
	}
}
