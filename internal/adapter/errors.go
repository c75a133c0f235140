package adapter

import "errors"

var (
	// ErrUnsupportedDevice indicates no adapter exists for the
	// configured device type.
	ErrUnsupportedDevice = errors.New("adapter: unsupported device type")

	// ErrUnsupportedProperty indicates a set command named a property
	// the device family does not accept.
	ErrUnsupportedProperty = errors.New("adapter: unsupported property")

	// ErrInvalidValue indicates a set command payload could not be
	// parsed for its property.
	ErrInvalidValue = errors.New("adapter: invalid property value")
)
