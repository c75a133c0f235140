package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/finlow/switchbridge/internal/ble"
	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/infrastructure/config"
	"github.com/finlow/switchbridge/internal/infrastructure/logging"
	"github.com/finlow/switchbridge/internal/openapi"
)

// fakePublisher records published properties keyed by property name.
type fakePublisher struct {
	mu     sync.Mutex
	values map[string]string
	count  int
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{values: make(map[string]string)}
}

func (f *fakePublisher) PublishProperty(deviceType, mac, property, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[property] = value
	f.count++
	return nil
}

func (f *fakePublisher) get(property string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[property]
	return v, ok
}

func (f *fakePublisher) publishCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

// fakeScanner returns a scripted advertisement or error.
type fakeScanner struct {
	mu    sync.Mutex
	adv   *ble.Advertisement
	err   error
	scans int
}

func (f *fakeScanner) Scan(ctx context.Context, filter ble.ScanFilter) (*ble.Advertisement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++
	if f.err != nil {
		return nil, f.err
	}
	return f.adv, nil
}

// fakeControl records GATT command writes.
type fakeControl struct {
	mu        sync.Mutex
	err       error
	positions []int
	modes     []byte
	onCalls   int
	offCalls  int
}

func (f *fakeControl) RunToPosition(ctx context.Context, address string, mode byte, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.modes = append(f.modes, mode)
	f.positions = append(f.positions, position)
	return nil
}

func (f *fakeControl) TurnOn(ctx context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.onCalls++
	return nil
}

func (f *fakeControl) TurnOff(ctx context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.offCalls++
	return nil
}

// cloudStub serves scripted vendor responses and records commands.
type cloudStub struct {
	mu       sync.Mutex
	status   openapi.DeviceStatus
	code     int
	commands []openapi.Command
}

func (c *cloudStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()

		if r.Method == http.MethodPost {
			var cmd openapi.Command
			json.NewDecoder(r.Body).Decode(&cmd)
			c.commands = append(c.commands, cmd)
			json.NewEncoder(w).Encode(openapi.Response{StatusCode: c.code})
			return
		}

		body, _ := json.Marshal(c.status)
		json.NewEncoder(w).Encode(openapi.Response{
			StatusCode: c.code,
			Body:       body,
		})
	}
}

func (c *cloudStub) sentCommands() []openapi.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]openapi.Command, len(c.commands))
	copy(out, c.commands)
	return out
}

// testHarness wires a registry, sync, and scripted transports.
type testHarness struct {
	registry  *device.Registry
	publisher *fakePublisher
	scanner   *fakeScanner
	control   *fakeControl
	cloud     *cloudStub
	deps      Deps
}

func newHarness(t *testing.T, withCloud bool) *testHarness {
	t.Helper()

	h := &testHarness{
		registry:  device.NewRegistry(),
		publisher: newFakePublisher(),
		scanner:   &fakeScanner{},
		control:   &fakeControl{},
		cloud:     &cloudStub{code: 100},
	}

	logger := logging.Default()
	h.deps = Deps{
		Registry: h.registry,
		Scanner:  h.scanner,
		Control:  h.control,
		Sync:     NewPropertySync(h.publisher, logger),
		Logger:   logger,
	}

	if withCloud {
		server := httptest.NewServer(h.cloud.handler())
		t.Cleanup(server.Close)
		h.deps.Cloud = openapi.New(config.Credentials{
			Token:   "test-token",
			Secret:  "test-secret",
			BaseURL: server.URL,
		}, logger)
	}

	return h
}

func (h *testHarness) addDevice(t *testing.T, dev device.Device, initial device.Status) {
	t.Helper()
	if err := h.registry.Add(dev, initial); err != nil {
		t.Fatalf("registry.Add() error = %v", err)
	}
}

func curtainDevice(mode device.ConnectionMode) device.Device {
	return device.Device{
		ID:      "C12E453E2008",
		Type:    "Curtain",
		Name:    "Living Room Curtain",
		Address: "c1:2e:45:3e:20:08",
		Mode:    mode,
	}
}

func curtainConfig() config.DeviceConfig {
	return config.DeviceConfig{
		DeviceID:       "C12E453E2008",
		DeviceType:     "Curtain",
		Name:           "Living Room Curtain",
		ConnectionType: "BLE/OpenAPI",
		ScanDuration:   1,
		Curtain:        &config.CurtainConfig{UpdateRate: 7},
	}
}
