package device

import (
	"errors"
	"testing"
)

func TestParseConnectionMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ConnectionMode
		wantErr bool
	}{
		{"BLE", ModeBLE, false},
		{"OpenAPI", ModeCloud, false},
		{"BLE/OpenAPI", ModeBoth, false},
		{"Disabled", ModeDisabled, false},
		{"", ModeBoth, false},
		{"wifi", "", true},
		{"ble", "", true},
	}

	for _, tt := range tests {
		got, err := ParseConnectionMode(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidMode) {
				t.Errorf("ParseConnectionMode(%q) error = %v, want ErrInvalidMode", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseConnectionMode(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseConnectionMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConnectionModePredicates(t *testing.T) {
	if !ModeBLE.UsesBLE() || ModeBLE.UsesCloud() {
		t.Error("ModeBLE should use BLE only")
	}
	if ModeCloud.UsesBLE() || !ModeCloud.UsesCloud() {
		t.Error("ModeCloud should use cloud only")
	}
	if !ModeBoth.UsesBLE() || !ModeBoth.UsesCloud() {
		t.Error("ModeBoth should use both transports")
	}
	if ModeDisabled.UsesBLE() || ModeDisabled.UsesCloud() {
		t.Error("ModeDisabled should use neither transport")
	}
	if !ModeDisabled.Disabled() {
		t.Error("ModeDisabled.Disabled() = false, want true")
	}
	if ModeBoth.Disabled() {
		t.Error("ModeBoth.Disabled() = true, want false")
	}
}

func TestMotionStateString(t *testing.T) {
	if MotionStopped.String() != "stopped" {
		t.Errorf("MotionStopped = %q", MotionStopped.String())
	}
	if MotionIncreasing.String() != "increasing" {
		t.Errorf("MotionIncreasing = %q", MotionIncreasing.String())
	}
	if MotionDecreasing.String() != "decreasing" {
		t.Errorf("MotionDecreasing = %q", MotionDecreasing.String())
	}
}

func TestOfflineDefaults(t *testing.T) {
	status := Status{
		CurrentPosition: 40,
		TargetPosition:  90,
		Motion:          MotionIncreasing,
		BatteryLevel:    55,
		Online:          true,
	}

	offline := status.OfflineDefaults()

	if offline.Online {
		t.Error("Online = true, want false")
	}
	if offline.Motion != MotionStopped {
		t.Errorf("Motion = %v, want MotionStopped", offline.Motion)
	}
	if offline.TargetPosition != 40 {
		t.Errorf("TargetPosition = %d, want frozen at current 40", offline.TargetPosition)
	}
	if offline.CurrentPosition != 40 {
		t.Errorf("CurrentPosition = %d, want 40", offline.CurrentPosition)
	}
	if offline.BatteryLevel != 55 {
		t.Errorf("BatteryLevel = %d, want last known 55", offline.BatteryLevel)
	}
}
