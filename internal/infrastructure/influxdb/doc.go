// Package influxdb provides time-series recording of device state history.
//
// The bridge writes normalized device status samples (positions, battery
// levels, lux, temperatures, power draw) and transport selection events
// to InfluxDB 2.x for long-term analysis. Recording is optional; when
// disabled in configuration the client is inert and all writes are
// silently dropped.
//
// Writes are batched and asynchronous. A failed write never blocks or
// fails a device operation; errors are surfaced through an optional
// error callback.
//
// Usage:
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    client = nil // writes become no-ops at the call sites
//	} else if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteStatusSample(deviceID, "Curtain", "current_position", 42)
package influxdb
