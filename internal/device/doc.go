// Package device defines device identity, normalized status, and the
// in-memory registry the rest of the bridge reads from.
//
// A Device is the static identity derived from configuration: vendor ID,
// type, BLE address, connection mode. A Status is the mutable normalized
// snapshot updated by pollers and host setters. The Registry holds both,
// guarded for concurrent access, and the ContextStore persists the last
// known status to SQLite so devices present sane values immediately
// after a restart instead of waiting for the first poll.
package device
