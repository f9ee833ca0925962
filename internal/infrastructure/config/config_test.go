package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
broker:
  port: 8883
  path: "/ws"
  connect_timeout: 10s
  reconnect_interval: 2s
device:
  actuators: 3
sequencer:
  target_offsets: [100ms, 200ms]
  celebrate_stagger: 50ms
  celebrate_duration: 1s
database:
  path: "/tmp/test.db"
api:
  port: 9090
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Broker.Port != 8883 {
		t.Errorf("Broker.Port = %d, want 8883", cfg.Broker.Port)
	}
	if cfg.Broker.ConnectTimeout != 10*time.Second {
		t.Errorf("Broker.ConnectTimeout = %v, want 10s", cfg.Broker.ConnectTimeout)
	}
	if cfg.Broker.ReconnectInterval != 2*time.Second {
		t.Errorf("Broker.ReconnectInterval = %v, want 2s", cfg.Broker.ReconnectInterval)
	}
	if cfg.Device.Actuators != 3 {
		t.Errorf("Device.Actuators = %d, want 3", cfg.Device.Actuators)
	}
	if len(cfg.Sequencer.TargetOffsets) != 2 || cfg.Sequencer.TargetOffsets[1] != 200*time.Millisecond {
		t.Errorf("Sequencer.TargetOffsets = %v, want [100ms 200ms]", cfg.Sequencer.TargetOffsets)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	// Untouched sections keep their defaults.
	if cfg.Broker.ClientIDPrefix != "web-dashboard-" {
		t.Errorf("Broker.ClientIDPrefix = %q, want default", cfg.Broker.ClientIDPrefix)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Broker.Port != 8884 {
		t.Errorf("Broker.Port = %d, want 8884", cfg.Broker.Port)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
device:
  actuators: 0
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for zero actuators, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "invalid broker port",
			mutate:  func(c *Config) { c.Broker.Port = 0 },
			wantErr: true,
		},
		{
			name:    "zero reconnect interval",
			mutate:  func(c *Config) { c.Broker.ReconnectInterval = 0 },
			wantErr: true,
		},
		{
			name:    "zero connect timeout",
			mutate:  func(c *Config) { c.Broker.ConnectTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.Broker.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "no target offsets",
			mutate:  func(c *Config) { c.Sequencer.TargetOffsets = nil },
			wantErr: true,
		},
		{
			name: "offsets not increasing",
			mutate: func(c *Config) {
				c.Sequencer.TargetOffsets = []time.Duration{time.Second, time.Second}
			},
			wantErr: true,
		},
		{
			name:    "zero celebrate duration",
			mutate:  func(c *Config) { c.Sequencer.CelebrateDuration = 0 },
			wantErr: true,
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}
	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}
	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("IRRIGATION_MQTT_HOST", "broker.example.com")
	t.Setenv("IRRIGATION_MQTT_USERNAME", "dashboard")
	t.Setenv("IRRIGATION_MQTT_PASSWORD", "hunter2")
	t.Setenv("IRRIGATION_MQTT_PORT", "8443")
	t.Setenv("IRRIGATION_DATABASE_PATH", "/custom/path.db")
	t.Setenv("IRRIGATION_API_HOST", "0.0.0.0")
	t.Setenv("IRRIGATION_LOG_LEVEL", "debug")

	applyEnvOverrides(cfg)

	if cfg.Credentials.Host != "broker.example.com" {
		t.Errorf("Credentials.Host = %q, want %q", cfg.Credentials.Host, "broker.example.com")
	}
	if cfg.Credentials.Username != "dashboard" {
		t.Errorf("Credentials.Username = %q, want %q", cfg.Credentials.Username, "dashboard")
	}
	if cfg.Credentials.Password != "hunter2" {
		t.Errorf("Credentials.Password = %q, want %q", cfg.Credentials.Password, "hunter2")
	}
	if cfg.Broker.Port != 8443 {
		t.Errorf("Broker.Port = %d, want 8443", cfg.Broker.Port)
	}
	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if !cfg.Credentials.Complete() {
		t.Error("Credentials.Complete() = false, want true")
	}
}

func TestApplyEnvOverrides_BadPortIgnored(t *testing.T) {
	cfg := defaultConfig()
	t.Setenv("IRRIGATION_MQTT_PORT", "not-a-port")

	applyEnvOverrides(cfg)

	if cfg.Broker.Port != 8884 {
		t.Errorf("Broker.Port = %d, want 8884", cfg.Broker.Port)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Broker.Port != 8884 {
		t.Errorf("Broker.Port = %d, want 8884", cfg.Broker.Port)
	}
	if cfg.Broker.ReconnectInterval != 5*time.Second {
		t.Errorf("Broker.ReconnectInterval = %v, want 5s", cfg.Broker.ReconnectInterval)
	}
	if cfg.Broker.ConnectTimeout != 30*time.Second {
		t.Errorf("Broker.ConnectTimeout = %v, want 30s", cfg.Broker.ConnectTimeout)
	}
	if len(cfg.Sequencer.TargetOffsets) != 4 {
		t.Errorf("len(Sequencer.TargetOffsets) = %d, want 4", len(cfg.Sequencer.TargetOffsets))
	}
	if cfg.Credentials.Complete() {
		t.Error("default credentials should be empty")
	}
}
