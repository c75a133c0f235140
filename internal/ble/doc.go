// Package ble implements local radio discovery of devices.
//
// Devices broadcast their state in BLE advertisement service data; the
// bridge never opens a GATT connection for status reads, it only listens.
// A read is a one-shot scan session: start scanning filtered to the
// device's address and model code, wait for the first matching
// advertisement or a timeout, stop scanning. Sessions are never kept
// open between reads.
//
// The Scanner interface abstracts the radio so the engine can run
// against a mock in tests and against the host adapter in production.
package ble
