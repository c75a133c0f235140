package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Rate limits and defaults enforced at load time.
const (
	// minRefreshRate is the floor for device status polling, in seconds.
	// Polling faster than this hammers the vendor cloud API.
	minRefreshRate = 5

	// defaultRefreshRate is the status polling interval, in seconds.
	defaultRefreshRate = 120

	// defaultUpdateRate is the fast re-poll interval while a covering is
	// moving, in seconds.
	defaultUpdateRate = 7

	// defaultPushRate is the debounce window for coalescing setter bursts
	// into one push, in milliseconds.
	defaultPushRate = 100

	// defaultScanDuration is the BLE advertisement wait, in seconds.
	defaultScanDuration = 1

	// defaultMaxRetries is the retry budget for push commands.
	defaultMaxRetries = 5
)

// Config is the root configuration structure for switchbridge.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Bridge      BridgeConfig   `yaml:"bridge"`
	Credentials Credentials    `yaml:"credentials"`
	Database    DatabaseConfig `yaml:"database"`
	MQTT        MQTTConfig     `yaml:"mqtt"`
	InfluxDB    InfluxDBConfig `yaml:"influxdb"`
	Logging     LoggingConfig  `yaml:"logging"`
	Options     OptionsConfig  `yaml:"options"`
	Devices     []DeviceConfig `yaml:"devices"`
}

// BridgeConfig contains bridge instance identification.
type BridgeConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Credentials contains the vendor cloud API token and signing secret.
// Both must be present for any OpenAPI transport to be usable; devices
// configured for BLE-only operation work without them.
type Credentials struct {
	Token  string `yaml:"token"`
	Secret string `yaml:"secret"`
	// BaseURL overrides the vendor API endpoint. Used in tests and for
	// regional endpoints. Default: https://api.switch-bot.com/v1.1
	BaseURL string `yaml:"base_url"`
}

// Present reports whether cloud credentials are configured.
func (c Credentials) Present() bool {
	return c.Token != "" && c.Secret != ""
}

// DatabaseConfig contains SQLite database settings for the device
// context cache.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for the optional
// state-history recorder.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// OptionsConfig contains platform-wide defaults that individual devices
// may override.
type OptionsConfig struct {
	// RefreshRate is the default status polling interval in seconds.
	RefreshRate int `yaml:"refresh_rate"`

	// PushRate is the debounce window for push coalescing in milliseconds.
	PushRate int `yaml:"push_rate"`
}

// DeviceConfig describes one physical device managed by the bridge.
type DeviceConfig struct {
	// DeviceID is the vendor device identifier (hex string).
	DeviceID string `yaml:"device_id"`

	// DeviceType is the model tag ("Curtain", "Blind Tilt", "Plug",
	// "Color Bulb", "Meter", ...).
	DeviceType string `yaml:"device_type"`

	// Name is a human-readable label used in logs and MQTT topics.
	Name string `yaml:"name"`

	// ConnectionType selects the transport: "BLE", "OpenAPI",
	// "BLE/OpenAPI", or "Disabled".
	ConnectionType string `yaml:"connection_type"`

	// HubDeviceID identifies the hub relaying cloud commands, if any.
	HubDeviceID string `yaml:"hub_device_id"`

	// Offline marks the device as intentionally offline; the bridge
	// republishes safe defaults and never touches a transport.
	Offline bool `yaml:"offline"`

	// RefreshRate overrides options.refresh_rate for this device (seconds).
	RefreshRate int `yaml:"refresh_rate"`

	// ScanDuration is the BLE advertisement wait in seconds. Raised to at
	// least the covering update rate at load time.
	ScanDuration int `yaml:"scan_duration"`

	// MaxRetries is the push retry budget. 0 means try once, never retry.
	// Absent (nil) means the default of 5.
	MaxRetries *int `yaml:"max_retries"`

	// DisableCaching forces pushes through even when the desired value
	// matches the last pushed value.
	DisableCaching bool `yaml:"disable_caching"`

	// Curtain holds covering-specific tuning. Also used by blind tilts.
	Curtain *CurtainConfig `yaml:"curtain"`
}

// CurtainConfig contains motorized-covering tuning options.
type CurtainConfig struct {
	// UpdateRate is the fast re-poll interval while moving, in seconds.
	// Also the target-expiry window for devices that never report stopped.
	UpdateRate int `yaml:"update_rate"`

	// SetMin clamps raw positions at or below this value to fully closed.
	SetMin int `yaml:"set_min"`

	// SetMax clamps raw positions at or above this value to fully open.
	SetMax int `yaml:"set_max"`

	// SetOpenMode selects the motor mode for targets above 50:
	// "1" silent, "0" performance, empty for device default.
	SetOpenMode string `yaml:"set_open_mode"`

	// SetCloseMode selects the motor mode for targets at or below 50.
	SetCloseMode string `yaml:"set_close_mode"`

	// HideLightSensor suppresses the ambient light property.
	HideLightSensor bool `yaml:"hide_lightsensor"`

	// SetMinLux and SetMaxLux bound the lux mapping of the device's
	// coarse light levels.
	SetMinLux float64 `yaml:"set_min_lux"`
	SetMaxLux float64 `yaml:"set_max_lux"`

	// Mode selects the blind tilt direction mapping: "only_up",
	// "only_down", "up_and_down", "down_and_up", "use_tilt_for_direction".
	Mode string `yaml:"mode"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SWITCHBRIDGE_SECTION_KEY
// For example: SWITCHBRIDGE_CREDENTIALS_TOKEN, SWITCHBRIDGE_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDeviceDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Bridge: BridgeConfig{
			ID:   "switchbridge-01",
			Name: "switchbridge",
		},
		Credentials: Credentials{
			BaseURL: "https://api.switch-bot.com/v1.1",
		},
		Database: DatabaseConfig{
			Path:        "./data/switchbridge.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "switchbridge",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Options: OptionsConfig{
			RefreshRate: defaultRefreshRate,
			PushRate:    defaultPushRate,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SWITCHBRIDGE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Credentials - the usual way to keep secrets out of the config file
	if v := os.Getenv("SWITCHBRIDGE_CREDENTIALS_TOKEN"); v != "" {
		cfg.Credentials.Token = v
	}
	if v := os.Getenv("SWITCHBRIDGE_CREDENTIALS_SECRET"); v != "" {
		cfg.Credentials.Secret = v
	}

	// Database
	if v := os.Getenv("SWITCHBRIDGE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("SWITCHBRIDGE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SWITCHBRIDGE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SWITCHBRIDGE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("SWITCHBRIDGE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// applyDeviceDefaults fills per-device settings from platform options and
// enforces rate floors.
func applyDeviceDefaults(cfg *Config) {
	if cfg.Options.RefreshRate == 0 {
		cfg.Options.RefreshRate = defaultRefreshRate
	}
	if cfg.Options.PushRate == 0 {
		cfg.Options.PushRate = defaultPushRate
	}

	for i := range cfg.Devices {
		dev := &cfg.Devices[i]

		if dev.RefreshRate == 0 {
			dev.RefreshRate = cfg.Options.RefreshRate
		}
		if dev.RefreshRate < minRefreshRate {
			dev.RefreshRate = minRefreshRate
		}

		if dev.Curtain != nil && dev.Curtain.UpdateRate == 0 {
			dev.Curtain.UpdateRate = defaultUpdateRate
		}

		if dev.ScanDuration == 0 {
			dev.ScanDuration = defaultScanDuration
		}
		// A scan shorter than the movement re-poll window would miss the
		// advertisement the fast poller is waiting for.
		if dev.Curtain != nil && dev.ScanDuration < dev.Curtain.UpdateRate {
			dev.ScanDuration = dev.Curtain.UpdateRate
		}
	}
}

// Validate checks the configuration for errors.
//
// Programmer/config errors fail fast here at startup rather than being
// retried at runtime.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Bridge.ID == "" {
		errs = append(errs, "bridge.id is required")
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	seen := make(map[string]bool, len(c.Devices))
	for i := range c.Devices {
		dev := &c.Devices[i]
		prefix := fmt.Sprintf("devices[%d]", i)

		if dev.DeviceID == "" {
			errs = append(errs, prefix+".device_id is required")
		}
		if dev.DeviceType == "" {
			errs = append(errs, prefix+".device_type is required")
		}
		if dev.DeviceID != "" && seen[dev.DeviceID] {
			errs = append(errs, prefix+".device_id duplicates an earlier device")
		}
		seen[dev.DeviceID] = true

		switch dev.ConnectionType {
		case "BLE", "OpenAPI", "BLE/OpenAPI", "Disabled":
		case "":
			errs = append(errs, prefix+".connection_type is required")
		default:
			errs = append(errs, fmt.Sprintf("%s.connection_type %q is not recognised", prefix, dev.ConnectionType))
		}

		if dev.ConnectionType == "OpenAPI" && !c.Credentials.Present() {
			errs = append(errs, prefix+" is cloud-only but credentials.token/secret are not set")
		}

		if dev.Curtain != nil {
			if dev.Curtain.SetMin < 0 || dev.Curtain.SetMin > 100 {
				errs = append(errs, prefix+".curtain.set_min must be 0-100")
			}
			if dev.Curtain.SetMax < 0 || dev.Curtain.SetMax > 100 {
				errs = append(errs, prefix+".curtain.set_max must be 0-100")
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// RefreshInterval returns the device's status polling interval as a Duration.
func (d *DeviceConfig) RefreshInterval() time.Duration {
	return time.Duration(d.RefreshRate) * time.Second
}

// UpdateInterval returns the covering's fast re-poll interval as a Duration.
// Falls back to the default for devices without covering config.
func (d *DeviceConfig) UpdateInterval() time.Duration {
	if d.Curtain != nil && d.Curtain.UpdateRate > 0 {
		return time.Duration(d.Curtain.UpdateRate) * time.Second
	}
	return defaultUpdateRate * time.Second
}

// ScanTimeout returns the BLE advertisement wait as a Duration.
func (d *DeviceConfig) ScanTimeout() time.Duration {
	return time.Duration(d.ScanDuration) * time.Second
}

// RetryBudget returns the device's push retry budget.
func (d *DeviceConfig) RetryBudget() int {
	if d.MaxRetries != nil {
		return *d.MaxRetries
	}
	return defaultMaxRetries
}

// PushDebounce returns the platform push debounce window as a Duration.
func (c *Config) PushDebounce() time.Duration {
	return time.Duration(c.Options.PushRate) * time.Millisecond
}
