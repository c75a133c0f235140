package openapi

import (
	"testing"

	"github.com/finlow/switchbridge/internal/infrastructure/logging"
)

func TestInterpretStatusCode(t *testing.T) {
	logger := logging.Default()

	tests := []struct {
		code int
		want Outcome
	}{
		{100, OutcomeSuccess},
		{200, OutcomeSuccess},
		{151, OutcomeUnsupported},
		{160, OutcomeUnsupported},
		{152, OutcomeNotFound},
		{161, OutcomeDeviceOffline},
		{171, OutcomeHubOffline},
		{190, OutcomeFormatError},
		{0, OutcomeUnknown},
		{418, OutcomeUnknown},
		{-1, OutcomeUnknown},
	}

	for _, tt := range tests {
		got := InterpretStatusCode(logger, "test-device", tt.code)
		if got != tt.want {
			t.Errorf("InterpretStatusCode(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestOutcomeOffline(t *testing.T) {
	if !OutcomeDeviceOffline.Offline() {
		t.Error("OutcomeDeviceOffline.Offline() = false, want true")
	}
	if !OutcomeHubOffline.Offline() {
		t.Error("OutcomeHubOffline.Offline() = false, want true")
	}
	if OutcomeSuccess.Offline() {
		t.Error("OutcomeSuccess.Offline() = true, want false")
	}
	if OutcomeUnknown.Offline() {
		t.Error("OutcomeUnknown.Offline() = true, want false")
	}
}

func TestOutcomeOK(t *testing.T) {
	if !OutcomeSuccess.OK() {
		t.Error("OutcomeSuccess.OK() = false, want true")
	}
	if OutcomeUnsupported.OK() {
		t.Error("OutcomeUnsupported.OK() = true, want false")
	}
}
