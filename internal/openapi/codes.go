package openapi

import "github.com/finlow/switchbridge/internal/infrastructure/logging"

// Outcome classifies a vendor status code into an action for the caller.
type Outcome int

const (
	// OutcomeSuccess means the request was accepted.
	OutcomeSuccess Outcome = iota

	// OutcomeUnsupported means the device rejected the command.
	OutcomeUnsupported

	// OutcomeNotFound means the device ID is unknown to the account.
	OutcomeNotFound

	// OutcomeDeviceOffline means the device itself is unreachable and the
	// caller should fall back to offline defaults.
	OutcomeDeviceOffline

	// OutcomeHubOffline means the hub relaying the device is unreachable.
	// Callers treat it the same as OutcomeDeviceOffline.
	OutcomeHubOffline

	// OutcomeFormatError means the vendor reported an internal or request
	// format error.
	OutcomeFormatError

	// OutcomeUnknown means the code is not in the known set.
	OutcomeUnknown
)

// Offline reports whether the outcome should force offline defaults.
func (o Outcome) Offline() bool {
	return o == OutcomeDeviceOffline || o == OutcomeHubOffline
}

// OK reports whether the outcome represents success.
func (o Outcome) OK() bool {
	return o == OutcomeSuccess
}

// InterpretStatusCode maps a vendor status code to an Outcome and logs it.
//
// The known codes:
//   - 100, 200: success
//   - 151, 160: command unsupported by the device
//   - 152: device not found
//   - 161: device offline
//   - 171: hub offline
//   - 190: vendor internal error or malformed request format
//
// Unknown codes are logged at info level with a request to report them.
// Interpretation never fails; a bad code cannot abort a poll or push.
func InterpretStatusCode(logger *logging.Logger, device string, code int) Outcome {
	switch code {
	case 100, 200:
		logger.Debug("command sent successfully", "device", device, "status_code", code)
		return OutcomeSuccess
	case 151, 160:
		logger.Error("command not supported by device", "device", device, "status_code", code)
		return OutcomeUnsupported
	case 152:
		logger.Error("device not found", "device", device, "status_code", code)
		return OutcomeNotFound
	case 161:
		logger.Error("device offline", "device", device, "status_code", code)
		return OutcomeDeviceOffline
	case 171:
		logger.Error("hub offline", "device", device, "status_code", code)
		return OutcomeHubOffline
	case 190:
		logger.Error("vendor internal error or malformed request", "device", device, "status_code", code)
		return OutcomeFormatError
	default:
		logger.Info("unknown vendor status code, please report it upstream",
			"device", device, "status_code", code)
		return OutcomeUnknown
	}
}
