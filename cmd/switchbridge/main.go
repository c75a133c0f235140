// switchbridge - SwitchBot to MQTT bridge
//
// This is the main entry point for the switchbridge daemon. It drives
// SwitchBot curtains, blind tilts, plugs, bulbs, and meters over two
// transports, local BLE and the vendor cloud API, and publishes their
// normalized state on MQTT for any host automation system to consume.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/finlow/switchbridge/internal/adapter"
	"github.com/finlow/switchbridge/internal/ble"
	"github.com/finlow/switchbridge/internal/device"
	"github.com/finlow/switchbridge/internal/engine"
	"github.com/finlow/switchbridge/internal/infrastructure/config"
	"github.com/finlow/switchbridge/internal/infrastructure/database"
	"github.com/finlow/switchbridge/internal/infrastructure/influxdb"
	"github.com/finlow/switchbridge/internal/infrastructure/logging"
	"github.com/finlow/switchbridge/internal/infrastructure/mqtt"
	"github.com/finlow/switchbridge/internal/openapi"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting switchbridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "devices", len(cfg.Devices))

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the device context cache
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Vendor cloud API client (optional, needs credentials)
	var cloudClient *openapi.Client
	if cfg.Credentials.Present() {
		cloudClient = openapi.New(cfg.Credentials, log)
		log.Info("cloud API client ready", "base_url", cfg.Credentials.BaseURL)
	} else {
		log.Info("cloud API disabled, no credentials configured")
	}

	// BLE radio (optional, the host may have no adapter)
	scanner, controller := startBLE(log)

	// Device registry and persisted context cache
	registry := device.NewRegistry()
	registry.SetLogger(log)
	store := device.NewContextStore(db.DB)

	propSync := adapter.NewPropertySync(adapter.NewMQTTPublisher(mqttClient), log)

	deps := adapter.Deps{
		Registry: registry,
		Store:    store,
		Cloud:    cloudClient,
		Scanner:  scanner,
		Control:  controller,
		Sync:     propSync,
		History:  influxClient,
		Logger:   log,
	}

	// Start one worker per configured device
	workers, err := startDevices(ctx, cfg, deps, mqttClient, log)
	if err != nil {
		return fmt.Errorf("starting devices: %w", err)
	}
	defer func() {
		log.Info("stopping device workers")
		for _, w := range workers {
			w.Stop()
		}
	}()

	// Drop cached contexts for devices no longer in the configuration
	keep := make([]string, 0, len(workers))
	for _, w := range workers {
		keep = append(keep, w.Device().ID)
	}
	if pruned, pruneErr := store.Prune(ctx, keep); pruneErr != nil {
		log.Warn("context prune failed", "error", pruneErr)
	} else if pruned > 0 {
		log.Info("pruned stale device contexts", "removed", pruned)
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order:
	// 1. Device workers
	// 2. InfluxDB (if enabled)
	// 3. MQTT
	// 4. Database

	log.Info("switchbridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SWITCHBRIDGE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SWITCHBRIDGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// startBLE initialises the BLE scanner and GATT controller.
//
// A host without a usable radio is not fatal: cloud-capable devices keep
// working and BLE-only devices publish offline defaults until the radio
// appears on a restart.
//
// Parameters:
//   - log: Logger instance
//
// Returns:
//   - ble.Scanner: Advertisement scanner, or nil if no adapter
//   - ble.Controller: GATT command writer, or nil if no adapter
func startBLE(log *logging.Logger) (ble.Scanner, ble.Controller) {
	scanner, err := ble.NewAdapterScanner(log)
	if err != nil {
		log.Warn("BLE adapter unavailable, radio transport disabled", "error", err)
		return nil, nil
	}
	log.Info("BLE adapter enabled")
	return scanner, ble.NewAdapterController(scanner.Adapter(), log)
}

// startDevices builds and starts a worker for every configured device.
//
// For each device it resolves the connection mode, derives the BLE
// address, seeds the registry from the persisted context cache, builds
// the type adapter, subscribes writable properties to their MQTT set
// topics, and starts the control loops.
//
// Parameters:
//   - ctx: Context for persisted-context loads
//   - cfg: Application configuration
//   - deps: Shared adapter services
//   - mqttClient: MQTT client for set-topic subscriptions
//   - log: Logger instance
//
// Returns:
//   - []*engine.Worker: Started workers, one per device
//   - error: If any device is misconfigured
func startDevices(ctx context.Context, cfg *config.Config, deps adapter.Deps, mqttClient *mqtt.Client, log *logging.Logger) ([]*engine.Worker, error) {
	topics := mqtt.Topics{}
	workers := make([]*engine.Worker, 0, len(cfg.Devices))

	for i := range cfg.Devices {
		devCfg := cfg.Devices[i]

		mode, err := device.ParseConnectionMode(devCfg.ConnectionType)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", devCfg.DeviceID, err)
		}
		if devCfg.Offline {
			mode = device.ModeDisabled
		}

		address, err := ble.AddressFromDeviceID(devCfg.DeviceID)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", devCfg.DeviceID, err)
		}

		dev := device.Device{
			ID:          devCfg.DeviceID,
			Type:        devCfg.DeviceType,
			Name:        devCfg.Name,
			Address:     address,
			Mode:        mode,
			HubDeviceID: devCfg.HubDeviceID,
		}

		// Seed from the persisted context so a restart does not publish
		// zeroed positions before the first refresh lands.
		initial, loadErr := deps.Store.Load(ctx, dev.ID)
		if loadErr != nil {
			if !errors.Is(loadErr, device.ErrDeviceNotFound) {
				log.Warn("persisted context load failed", "device", dev.ID, "error", loadErr)
			}
			initial = device.Status{}
		}
		if addErr := deps.Registry.Add(dev, initial); addErr != nil {
			return nil, fmt.Errorf("device %s: %w", dev.ID, addErr)
		}

		capability, err := adapter.New(dev, devCfg, deps)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", dev.ID, err)
		}

		workerCfg := engine.WorkerConfig{
			RefreshInterval: devCfg.RefreshInterval(),
			PushDebounce:    cfg.PushDebounce(),
			MaxRetries:      devCfg.RetryBudget(),
		}
		if devCfg.Curtain != nil {
			workerCfg.UpdateInterval = devCfg.UpdateInterval()
		}

		worker := engine.NewWorker(dev, capability, workerCfg, log)

		if setter, ok := capability.(adapter.Setter); ok && !mode.Disabled() {
			pattern := topics.DeviceSetPattern(adapter.TopicType(dev.Type), dev.Address)
			// #nosec G115 -- QoS validated to 0-2 at config load
			qos := byte(cfg.MQTT.QoS)
			subErr := mqttClient.Subscribe(pattern, qos, func(topic string, payload []byte) error {
				property := topic[strings.LastIndex(topic, "/")+1:]
				if handleErr := setter.HandleSet(property, string(payload)); handleErr != nil {
					return fmt.Errorf("set %s: %w", property, handleErr)
				}
				worker.Signal()
				return nil
			})
			if subErr != nil {
				return nil, fmt.Errorf("device %s: subscribing set topics: %w", dev.ID, subErr)
			}
		}

		worker.Start()
		workers = append(workers, worker)
		log.Info("device started",
			"device", dev.ID,
			"name", dev.Name,
			"type", dev.Type,
			"mode", mode,
		)
	}

	return workers, nil
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
