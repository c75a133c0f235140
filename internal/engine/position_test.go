package engine

import (
	"testing"

	"github.com/finlow/switchbridge/internal/device"
)

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		raw  int
		want int
	}{
		{0, 100},
		{100, 0},
		{30, 70},
		{50, 50},
		{-5, 100},
		{130, 0},
	}

	for _, tt := range tests {
		if got := NormalizePosition(tt.raw); got != tt.want {
			t.Errorf("NormalizePosition(%d) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizePositionIsSelfInverse(t *testing.T) {
	for raw := 0; raw <= 100; raw++ {
		if got := NormalizePosition(NormalizePosition(raw)); got != raw {
			t.Fatalf("NormalizePosition(NormalizePosition(%d)) = %d", raw, got)
		}
	}
}

func TestClampPosition(t *testing.T) {
	tests := []struct {
		name     string
		position int
		setMin   int
		setMax   int
		want     int
	}{
		{"at min clamps to 0", 5, 5, 95, 0},
		{"below min clamps to 0", 3, 5, 95, 0},
		{"at max clamps to 100", 95, 5, 95, 100},
		{"above max clamps to 100", 98, 5, 95, 100},
		{"middle untouched", 50, 5, 95, 50},
		{"zero min disables low clamp", 0, 0, 95, 0},
		{"zero max disables high clamp", 99, 5, 0, 99},
		{"no clamps configured", 7, 0, 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPosition(tt.position, tt.setMin, tt.setMax); got != tt.want {
				t.Errorf("ClampPosition(%d, %d, %d) = %d, want %d",
					tt.position, tt.setMin, tt.setMax, got, tt.want)
			}
		})
	}
}

func TestEvaluateMotion(t *testing.T) {
	tests := []struct {
		target  int
		current int
		want    device.MotionState
	}{
		{80, 20, device.MotionIncreasing},
		{30, 70, device.MotionDecreasing},
		{50, 50, device.MotionStopped},
		{0, 100, device.MotionDecreasing},
		{100, 0, device.MotionIncreasing},
	}

	for _, tt := range tests {
		if got := EvaluateMotion(tt.target, tt.current); got != tt.want {
			t.Errorf("EvaluateMotion(%d, %d) = %v, want %v", tt.target, tt.current, got, tt.want)
		}
	}
}

func TestSelectPositionMode(t *testing.T) {
	tests := []struct {
		name      string
		target    int
		openMode  string
		closeMode string
		want      string
	}{
		{"above midpoint uses open mode", 80, "1", "0", "1"},
		{"below midpoint uses close mode", 20, "1", "0", "0"},
		{"midpoint exactly uses close mode", 50, "1", "0", "0"},
		{"unset mode becomes wire default", 80, "", "0", "ff"},
		{"unset close mode becomes wire default", 20, "1", "", "ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectPositionMode(tt.target, tt.openMode, tt.closeMode)
			if got != tt.want {
				t.Errorf("SelectPositionMode(%d, %q, %q) = %q, want %q",
					tt.target, tt.openMode, tt.closeMode, got, tt.want)
			}
		})
	}
}

func TestPositionModeName(t *testing.T) {
	if PositionModeName("1") != "silent" {
		t.Error("mode 1 should be silent")
	}
	if PositionModeName("0") != "performance" {
		t.Error("mode 0 should be performance")
	}
	if PositionModeName("") != "default" || PositionModeName("ff") != "default" {
		t.Error("unset modes should be default")
	}
}
