package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the irrigation dashboard.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Broker      BrokerConfig      `yaml:"broker"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Device      DeviceConfig      `yaml:"device"`
	Sequencer   SequencerConfig   `yaml:"sequencer"`
	Database    DatabaseConfig    `yaml:"database"`
	API         APIConfig         `yaml:"api"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// BrokerConfig contains the fixed parameters of the broker session.
// The host and credentials are not part of it: they come from the
// credential store so they can be replaced at runtime.
type BrokerConfig struct {
	Port              int           `yaml:"port"`
	Path              string        `yaml:"path"`
	ClientIDPrefix    string        `yaml:"client_id_prefix"`
	ConnectTimeout    time.Duration `yaml:"connect_timeout"`
	ReconnectInterval time.Duration `yaml:"reconnect_interval"`
	KeepAlive         time.Duration `yaml:"keep_alive"`
	QoS               int           `yaml:"qos"`
}

// CredentialsConfig optionally seeds the credential store on first run.
// Leave it empty to have the dashboard prompt for credentials instead.
type CredentialsConfig struct {
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Complete reports whether all three fields are set.
func (c CredentialsConfig) Complete() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// DeviceConfig describes the controller on the other side of the broker.
type DeviceConfig struct {
	// Actuators is the number of pumps, numbered 1..Actuators.
	Actuators int `yaml:"actuators"`
}

// SequencerConfig holds the animation timing.
type SequencerConfig struct {
	// TargetOffsets are the delays at which each target is reached after
	// a pump turns on. One entry per target, strictly increasing.
	TargetOffsets     []time.Duration `yaml:"target_offsets"`
	CelebrateStagger  time.Duration   `yaml:"celebrate_stagger"`
	CelebrateDuration time.Duration   `yaml:"celebrate_duration"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`

	// PanelDir serves the web page from disk instead of the embedded copy.
	PanelDir string `yaml:"panel_dir"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	MaxMessageSize int `yaml:"max_message_size"`
	PingInterval   int `yaml:"ping_interval"`
	PongTimeout    int `yaml:"pong_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults); a missing file is not an error
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: IRRIGATION_SECTION_KEY
// For example: IRRIGATION_DATABASE_PATH, IRRIGATION_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be parsed or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults plus environment are a valid configuration.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with the values the dashboard ships with.
func defaultConfig() *Config {
	return &Config{
		Broker: BrokerConfig{
			Port:              8884,
			Path:              "/mqtt",
			ClientIDPrefix:    "web-dashboard-",
			ConnectTimeout:    30 * time.Second,
			ReconnectInterval: 5 * time.Second,
			KeepAlive:         60 * time.Second,
			QoS:               0,
		},
		Device: DeviceConfig{
			Actuators: 2,
		},
		Sequencer: SequencerConfig{
			TargetOffsets: []time.Duration{
				500 * time.Millisecond,
				1000 * time.Millisecond,
				1500 * time.Millisecond,
				2000 * time.Millisecond,
			},
			CelebrateStagger:  300 * time.Millisecond,
			CelebrateDuration: 5000 * time.Millisecond,
		},
		Database: DatabaseConfig{
			Path:        "./data/irrigation.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: IRRIGATION_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Credential seed
	if v := os.Getenv("IRRIGATION_MQTT_HOST"); v != "" {
		cfg.Credentials.Host = v
	}
	if v := os.Getenv("IRRIGATION_MQTT_USERNAME"); v != "" {
		cfg.Credentials.Username = v
	}
	if v := os.Getenv("IRRIGATION_MQTT_PASSWORD"); v != "" {
		cfg.Credentials.Password = v
	}

	// Broker
	if v := os.Getenv("IRRIGATION_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Broker.Port = port
		}
	}

	// Database
	if v := os.Getenv("IRRIGATION_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// API
	if v := os.Getenv("IRRIGATION_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// Logging
	if v := os.Getenv("IRRIGATION_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Broker validation
	if c.Broker.Port < 1 || c.Broker.Port > 65535 {
		errs = append(errs, "broker.port must be between 1 and 65535")
	}
	if c.Broker.ConnectTimeout <= 0 {
		errs = append(errs, "broker.connect_timeout must be positive")
	}
	if c.Broker.ReconnectInterval <= 0 {
		errs = append(errs, "broker.reconnect_interval must be positive")
	}
	if c.Broker.QoS < 0 || c.Broker.QoS > 2 {
		errs = append(errs, "broker.qos must be 0, 1, or 2")
	}

	// Device validation
	if c.Device.Actuators < 1 {
		errs = append(errs, "device.actuators must be at least 1")
	}

	// Sequencer validation
	if len(c.Sequencer.TargetOffsets) == 0 {
		errs = append(errs, "sequencer.target_offsets must not be empty")
	}
	for i := 1; i < len(c.Sequencer.TargetOffsets); i++ {
		if c.Sequencer.TargetOffsets[i] <= c.Sequencer.TargetOffsets[i-1] {
			errs = append(errs, "sequencer.target_offsets must be strictly increasing")
			break
		}
	}
	if c.Sequencer.CelebrateStagger < 0 {
		errs = append(errs, "sequencer.celebrate_stagger must not be negative")
	}
	if c.Sequencer.CelebrateDuration <= 0 {
		errs = append(errs, "sequencer.celebrate_duration must be positive")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
