// Package config loads and validates switchbridge configuration.
//
// Configuration is read from a YAML file with three layers of precedence:
// hardcoded defaults, file values, and SWITCHBRIDGE_* environment variable
// overrides (used for secrets like the cloud token and signing key).
//
// Per-device settings (connection type, polling rates, BLE scan duration,
// retry budget, covering clamps and motor modes) live alongside platform
// options; Load resolves device defaults from platform options and enforces
// rate floors so the rest of the codebase never re-checks them.
//
// Validation fails fast at startup: a missing device ID or an unrecognised
// connection type is a configuration error, not something to retry at
// runtime.
package config
