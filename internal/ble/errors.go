package ble

import "errors"

var (
	// ErrAdapterUnavailable indicates the host has no usable BLE radio.
	ErrAdapterUnavailable = errors.New("ble: adapter unavailable")

	// ErrScanTimeout indicates no matching advertisement arrived within
	// the scan duration.
	ErrScanTimeout = errors.New("ble: scan timeout, no advertisement received")

	// ErrScanFailed indicates the scan could not be started.
	ErrScanFailed = errors.New("ble: scan failed")

	// ErrWriteFailed indicates a GATT command write could not be
	// delivered.
	ErrWriteFailed = errors.New("ble: command write failed")

	// ErrInvalidDeviceID indicates the device ID cannot be converted to
	// a MAC address.
	ErrInvalidDeviceID = errors.New("ble: invalid device id")

	// ErrMalformedServiceData indicates the advertisement payload was too
	// short or did not match the expected model layout.
	ErrMalformedServiceData = errors.New("ble: malformed service data")
)
