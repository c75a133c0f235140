// Package adapter implements per-model-family device behaviour.
//
// Each adapter translates between a device family's transports (BLE
// advertisements and GATT writes, cloud status and command endpoints)
// and the normalized status in the registry, and publishes changed
// properties to the host over MQTT. Adapters implement engine.Capability
// so the engine's Worker can drive them without knowing the model.
//
// Supported families: coverings (Curtain, Blind Tilt), switched outlets
// (Plug), lights (Color Bulb, Strip Light), and thermometers (Meter).
package adapter
