package openapi

import "errors"

var (
	// ErrMissingCredentials indicates the token or secret is not configured.
	ErrMissingCredentials = errors.New("openapi: credentials not configured")

	// ErrRequestFailed indicates the HTTP request could not be completed.
	ErrRequestFailed = errors.New("openapi: request failed")

	// ErrBadResponse indicates the response body could not be decoded.
	ErrBadResponse = errors.New("openapi: malformed response body")
)
