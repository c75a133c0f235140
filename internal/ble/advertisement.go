package ble

import "fmt"

// Advertisement is the decoded state a device broadcasts in its BLE
// service data.
//
// Position and LightLevel are raw vendor values; the engine normalizes
// them before host exposure. Fields a model does not broadcast stay at
// their zero value.
type Advertisement struct {
	Address     string
	Model       byte
	Calibrated  bool
	Battery     int
	InMotion    bool
	Position    int
	LightLevel  int
	Temperature float64
	Humidity    int
	RSSI        int16
}

// ParseServiceData decodes a service-data payload for the given model.
//
// Layouts follow the vendor's broadcast format: byte 0 is the model
// code, byte 1 carries flag bits, byte 2 the battery level, and bytes
// 3+ are model-specific.
func ParseServiceData(model byte, data []byte) (*Advertisement, error) {
	if len(data) < 3 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedServiceData, len(data))
	}
	if data[0] != model {
		return nil, fmt.Errorf("%w: model %q, want %q", ErrMalformedServiceData, data[0], model)
	}

	adv := &Advertisement{
		Model:   model,
		Battery: int(data[2] & 0x7f),
	}

	switch model {
	case 'c', 'x': // motorized coverings
		if len(data) < 5 {
			return nil, fmt.Errorf("%w: covering payload %d bytes", ErrMalformedServiceData, len(data))
		}
		adv.Calibrated = data[1]&0x40 != 0
		adv.InMotion = data[3]&0x80 != 0
		adv.Position = int(data[3] & 0x7f)
		adv.LightLevel = int(data[4]>>4) & 0x0f

	case 'T', 'i': // thermometers
		if len(data) < 6 {
			return nil, fmt.Errorf("%w: meter payload %d bytes", ErrMalformedServiceData, len(data))
		}
		temp := float64(data[4]&0x7f) + float64(data[3]&0x0f)/10
		if data[4]&0x80 == 0 {
			temp = -temp
		}
		adv.Temperature = temp
		adv.Humidity = int(data[5] & 0x7f)
	}

	return adv, nil
}
