package ble

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/finlow/switchbridge/internal/infrastructure/logging"
)

// Devices broadcast their state under this 16-bit service UUID.
var serviceUUID = bluetooth.New16BitUUID(0xFD3D)

// ScanFilter selects which advertisement a scan session is waiting for.
type ScanFilter struct {
	// Address is the lowercase colon-separated MAC to match.
	Address string

	// Model is the expected service-data model code.
	Model byte

	// Timeout bounds the wait for a matching advertisement.
	Timeout time.Duration
}

// Scanner waits for a single matching advertisement.
//
// Implementations must be safe for concurrent use; the engine runs one
// poller per device.
type Scanner interface {
	Scan(ctx context.Context, filter ScanFilter) (*Advertisement, error)
}

// AdapterScanner reads advertisements from the host BLE adapter.
//
// The adapter supports only one active scan, so sessions are serialized
// with a mutex. Each Scan call is a complete session: start, wait for
// the first match or timeout, stop.
type AdapterScanner struct {
	adapter *bluetooth.Adapter
	logger  *logging.Logger
	mu      sync.Mutex
}

// NewAdapterScanner enables the default host adapter.
//
// Returns ErrAdapterUnavailable when the host has no radio or the
// adapter cannot be powered on. Callers treat that as "BLE absent" and
// rely on the cloud path.
func NewAdapterScanner(logger *logging.Logger) (*AdapterScanner, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdapterUnavailable, err)
	}

	return &AdapterScanner{
		adapter: adapter,
		logger:  logger.With("component", "ble"),
	}, nil
}

// Scan waits for the first advertisement matching the filter.
//
// Returns ErrScanTimeout if nothing matches within filter.Timeout, or
// the context error if ctx is cancelled first.
func (s *AdapterScanner) Scan(ctx context.Context, filter ScanFilter) (*Advertisement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make(chan *Advertisement, 1)
	scanErr := make(chan error, 1)

	go func() {
		err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			adv := s.match(filter, result)
			if adv == nil {
				return
			}
			select {
			case matched <- adv:
			default:
			}
			adapter.StopScan()
		})
		if err != nil {
			scanErr <- fmt.Errorf("%w: %v", ErrScanFailed, err)
		}
	}()

	timer := time.NewTimer(filter.Timeout)
	defer timer.Stop()

	select {
	case adv := <-matched:
		return adv, nil
	case err := <-scanErr:
		return nil, err
	case <-timer.C:
		s.adapter.StopScan()
		s.logger.Debug("scan timed out", "address", filter.Address, "timeout", filter.Timeout)
		return nil, ErrScanTimeout
	case <-ctx.Done():
		s.adapter.StopScan()
		return nil, ctx.Err()
	}
}

// match decodes a scan result if it belongs to the filtered device.
func (s *AdapterScanner) match(filter ScanFilter, result bluetooth.ScanResult) *Advertisement {
	addr := strings.ToLower(result.Address.String())
	if addr != filter.Address {
		return nil
	}

	for _, element := range result.ServiceData() {
		if element.UUID != serviceUUID {
			continue
		}
		adv, err := ParseServiceData(filter.Model, element.Data)
		if err != nil {
			s.logger.Debug("discarding advertisement", "address", addr, "error", err)
			return nil
		}
		adv.Address = addr
		adv.RSSI = result.RSSI
		return adv
	}

	return nil
}
