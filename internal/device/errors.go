package device

import "errors"

var (
	// ErrDeviceNotFound indicates the device ID is not in the registry
	// or context store.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists indicates a duplicate device ID registration.
	ErrDeviceExists = errors.New("device: already registered")

	// ErrInvalidMode indicates an unrecognized connection mode string.
	ErrInvalidMode = errors.New("device: invalid connection mode")
)
