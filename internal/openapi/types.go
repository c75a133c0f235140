package openapi

import "encoding/json"

// Response is the vendor API envelope shared by all endpoints.
//
// StatusCode is the vendor's own result code, independent of the HTTP
// status. Body is left raw so each caller can decode the shape it needs.
type Response struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Body       json.RawMessage `json:"body"`
}

// DeviceStatus is the decoded body of a device status query.
//
// Fields are a union across device types; a given device populates only
// the subset it supports. Positions are raw vendor values and must be
// normalized by the caller before host exposure.
type DeviceStatus struct {
	DeviceID      string  `json:"deviceId"`
	DeviceType    string  `json:"deviceType"`
	HubDeviceID   string  `json:"hubDeviceId"`
	Power         string  `json:"power"`
	SlidePosition int     `json:"slidePosition"`
	Moving        bool    `json:"moving"`
	Direction     string  `json:"direction"`
	Brightness    string  `json:"brightness"`
	Battery       int     `json:"battery"`
	Temperature   float64 `json:"temperature"`
	Humidity      int     `json:"humidity"`
	Voltage       float64 `json:"voltage"`
	Weight        float64 `json:"weight"`
	Version       string  `json:"version"`
	Calibrate     bool    `json:"calibrate"`
}

// Command is the payload for the command endpoint.
type Command struct {
	Command     string `json:"command"`
	Parameter   string `json:"parameter"`
	CommandType string `json:"commandType"`
}

// NewCommand builds a standard device command.
//
// Parameter defaults to "default" when empty, matching vendor convention.
func NewCommand(command, parameter string) Command {
	if parameter == "" {
		parameter = "default"
	}
	return Command{
		Command:     command,
		Parameter:   parameter,
		CommandType: "command",
	}
}
