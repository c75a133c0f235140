package device

import (
	"sync"
	"time"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry holds every configured device and its current normalized
// status.
//
// Pollers and host setters write through the registry; the MQTT
// publication layer reads from it. Status values are copied on the way
// in and out so callers never share mutable state.
//
// All public methods are thread-safe.
type Registry struct {
	mu       sync.RWMutex
	devices  map[string]Device
	statuses map[string]Status
	logger   Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		devices:  make(map[string]Device),
		statuses: make(map[string]Status),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Add registers a device with an initial status.
// Returns ErrDeviceExists for duplicate IDs.
func (r *Registry) Add(dev Device, initial Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[dev.ID]; ok {
		return ErrDeviceExists
	}

	r.devices[dev.ID] = dev
	r.statuses[dev.ID] = initial
	r.logger.Debug("device registered", "device", dev.ID, "type", dev.Type, "mode", dev.Mode)
	return nil
}

// Get returns a device by ID.
func (r *Registry) Get(id string) (Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dev, ok := r.devices[id]
	if !ok {
		return Device{}, ErrDeviceNotFound
	}
	return dev, nil
}

// List returns all registered devices.
func (r *Registry) List() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Device, 0, len(r.devices))
	for _, dev := range r.devices {
		out = append(out, dev)
	}
	return out
}

// Status returns the current status snapshot for a device.
func (r *Registry) Status(id string) (Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status, ok := r.statuses[id]
	if !ok {
		return Status{}, ErrDeviceNotFound
	}
	return status, nil
}

// SetStatus replaces a device's status snapshot.
func (r *Registry) SetStatus(id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[id]; !ok {
		return ErrDeviceNotFound
	}

	status.UpdatedAt = time.Now().UTC()
	r.statuses[id] = status
	return nil
}

// UpdateStatus applies a mutation to a device's status under the lock
// and returns the result.
//
// The mutation receives a copy; partial updates read current values and
// change only the fields they own.
func (r *Registry) UpdateStatus(id string, mutate func(*Status)) (Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.statuses[id]
	if !ok {
		return Status{}, ErrDeviceNotFound
	}

	mutate(&status)
	status.UpdatedAt = time.Now().UTC()
	r.statuses[id] = status
	return status, nil
}

// Remove deletes a device and destroys its status.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[id]; !ok {
		return ErrDeviceNotFound
	}

	delete(r.devices, id)
	delete(r.statuses, id)
	r.logger.Debug("device removed", "device", id)
	return nil
}

// Count returns the number of registered devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}
