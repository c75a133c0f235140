package ble

import (
	"context"
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"

	"github.com/finlow/switchbridge/internal/infrastructure/logging"
)

// GATT endpoints for device control.
var (
	controlServiceUUID = mustUUID("cba20d00-224d-11e6-9fb8-0002a5d5c51b")
	controlWriteUUID   = mustUUID("cba20002-224d-11e6-9fb8-0002a5d5c51b")
)

func mustUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Command frames. Byte 0 is the magic, byte 1 the command family.
var (
	cmdTurnOn  = []byte{0x57, 0x01, 0x01}
	cmdTurnOff = []byte{0x57, 0x01, 0x02}
)

// runToPositionFrame builds a covering move command.
// mode is the raw motor mode byte, position the raw vendor position.
func runToPositionFrame(mode, position byte) []byte {
	return []byte{0x57, 0x0f, 0x45, 0x01, 0x05, mode, position}
}

// Controller issues commands to a device over a short-lived GATT
// connection.
//
// Each call is a complete session: connect, discover the control
// characteristic, write, disconnect. Implementations must be safe for
// concurrent use.
type Controller interface {
	RunToPosition(ctx context.Context, address string, mode byte, position int) error
	TurnOn(ctx context.Context, address string) error
	TurnOff(ctx context.Context, address string) error
}

// AdapterController controls devices through the host BLE adapter.
//
// Connections are serialized; the adapter misbehaves with overlapping
// connect attempts on some platforms.
type AdapterController struct {
	adapter *bluetooth.Adapter
	logger  *logging.Logger
	mu      sync.Mutex
}

// NewAdapterController wraps an already-enabled adapter, typically the
// one backing the AdapterScanner.
func NewAdapterController(adapter *bluetooth.Adapter, logger *logging.Logger) *AdapterController {
	return &AdapterController{
		adapter: adapter,
		logger:  logger.With("component", "ble"),
	}
}

// Adapter exposes the scanner's underlying adapter for controller reuse.
func (s *AdapterScanner) Adapter() *bluetooth.Adapter {
	return s.adapter
}

// RunToPosition moves a covering to a raw vendor position.
func (c *AdapterController) RunToPosition(ctx context.Context, address string, mode byte, position int) error {
	if position < 0 {
		position = 0
	}
	if position > 100 {
		position = 100
	}
	return c.write(ctx, address, runToPositionFrame(mode, byte(position)))
}

// TurnOn powers a device on.
func (c *AdapterController) TurnOn(ctx context.Context, address string) error {
	return c.write(ctx, address, cmdTurnOn)
}

// TurnOff powers a device off.
func (c *AdapterController) TurnOff(ctx context.Context, address string) error {
	return c.write(ctx, address, cmdTurnOff)
}

func (c *AdapterController) write(ctx context.Context, address string, frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	mac, err := bluetooth.ParseMAC(address)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDeviceID, address)
	}

	dev, err := c.adapter.Connect(
		bluetooth.Address{MACAddress: bluetooth.MACAddress{MAC: mac}},
		bluetooth.ConnectionParams{},
	)
	if err != nil {
		return fmt.Errorf("%w: connect %s: %v", ErrWriteFailed, address, err)
	}
	defer dev.Disconnect()

	services, err := dev.DiscoverServices([]bluetooth.UUID{controlServiceUUID})
	if err != nil || len(services) == 0 {
		return fmt.Errorf("%w: control service on %s: %v", ErrWriteFailed, address, err)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{controlWriteUUID})
	if err != nil || len(chars) == 0 {
		return fmt.Errorf("%w: control characteristic on %s: %v", ErrWriteFailed, address, err)
	}

	if _, err := chars[0].WriteWithoutResponse(frame); err != nil {
		return fmt.Errorf("%w: write to %s: %v", ErrWriteFailed, address, err)
	}

	c.logger.Debug("command written", "address", address, "bytes", len(frame))
	return nil
}
