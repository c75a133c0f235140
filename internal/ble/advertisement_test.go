package ble

import (
	"errors"
	"testing"
)

func TestParseServiceDataCurtain(t *testing.T) {
	// model 'c', calibrated, battery 88, in motion, position 45, light level 7
	data := []byte{'c', 0x40, 88, 0x80 | 45, 7 << 4}

	adv, err := ParseServiceData('c', data)
	if err != nil {
		t.Fatalf("ParseServiceData() error = %v", err)
	}

	if !adv.Calibrated {
		t.Error("Calibrated = false, want true")
	}
	if adv.Battery != 88 {
		t.Errorf("Battery = %d, want 88", adv.Battery)
	}
	if !adv.InMotion {
		t.Error("InMotion = false, want true")
	}
	if adv.Position != 45 {
		t.Errorf("Position = %d, want 45", adv.Position)
	}
	if adv.LightLevel != 7 {
		t.Errorf("LightLevel = %d, want 7", adv.LightLevel)
	}
}

func TestParseServiceDataCurtainStopped(t *testing.T) {
	data := []byte{'c', 0x00, 100, 0x7f, 0x00}

	adv, err := ParseServiceData('c', data)
	if err != nil {
		t.Fatalf("ParseServiceData() error = %v", err)
	}

	if adv.Calibrated {
		t.Error("Calibrated = true, want false")
	}
	if adv.InMotion {
		t.Error("InMotion = true, want false")
	}
	if adv.Position != 127&0x7f {
		t.Errorf("Position = %d, want 127", adv.Position)
	}
}

func TestParseServiceDataMeter(t *testing.T) {
	// model 'T', battery 75, 23.5 degrees, 60% humidity
	data := []byte{'T', 0x00, 75, 5, 0x80 | 23, 60}

	adv, err := ParseServiceData('T', data)
	if err != nil {
		t.Fatalf("ParseServiceData() error = %v", err)
	}

	if adv.Temperature != 23.5 {
		t.Errorf("Temperature = %v, want 23.5", adv.Temperature)
	}
	if adv.Humidity != 60 {
		t.Errorf("Humidity = %d, want 60", adv.Humidity)
	}
	if adv.Battery != 75 {
		t.Errorf("Battery = %d, want 75", adv.Battery)
	}
}

func TestParseServiceDataMeterNegativeTemperature(t *testing.T) {
	data := []byte{'T', 0x00, 75, 2, 5, 40} // sign bit clear -> below zero

	adv, err := ParseServiceData('T', data)
	if err != nil {
		t.Fatalf("ParseServiceData() error = %v", err)
	}
	if adv.Temperature != -5.2 {
		t.Errorf("Temperature = %v, want -5.2", adv.Temperature)
	}
}

func TestParseServiceDataRejectsWrongModel(t *testing.T) {
	data := []byte{'u', 0x00, 50, 0x00, 0x00}

	_, err := ParseServiceData('c', data)
	if !errors.Is(err, ErrMalformedServiceData) {
		t.Errorf("ParseServiceData() error = %v, want ErrMalformedServiceData", err)
	}
}

func TestParseServiceDataRejectsShortPayload(t *testing.T) {
	if _, err := ParseServiceData('c', []byte{'c', 0x00}); !errors.Is(err, ErrMalformedServiceData) {
		t.Errorf("short payload error = %v, want ErrMalformedServiceData", err)
	}
	if _, err := ParseServiceData('c', []byte{'c', 0x00, 50, 0x00}); !errors.Is(err, ErrMalformedServiceData) {
		t.Errorf("short covering payload error = %v, want ErrMalformedServiceData", err)
	}
}
