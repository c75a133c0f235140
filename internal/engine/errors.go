package engine

import "errors"

// ErrNoTransport indicates no usable transport for the operation; the
// caller logs and skips rather than retrying.
var ErrNoTransport = errors.New("engine: no usable transport")
