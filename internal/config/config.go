package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all dashboard settings.
type Config struct {
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Map       MapConfig       `yaml:"map"`
	Speedwalk SpeedwalkConfig `yaml:"speedwalk"`
}

// TelemetryConfig points at the telemetry proxy.
type TelemetryConfig struct {
	URL string `yaml:"url"`
}

// MapConfig controls map persistence.
type MapConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SpeedwalkConfig bounds the walk executor's recovery attempts.
type SpeedwalkConfig struct {
	ConfirmTimeoutMs int `yaml:"confirm_timeout_ms"`
	MaxSendAttempts  int `yaml:"max_send_attempts"`
	MaxReroutes      int `yaml:"max_reroutes"`
}

// ConfirmWait is ConfirmTimeoutMs as a duration.
func (s SpeedwalkConfig) ConfirmWait() time.Duration {
	return time.Duration(s.ConfirmTimeoutMs) * time.Millisecond
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Telemetry: TelemetryConfig{
			URL: "ws://127.0.0.1:4101/telemetry",
		},
		Map: MapConfig{
			DatabasePath: "./map.db",
		},
		Speedwalk: SpeedwalkConfig{
			ConfirmTimeoutMs: 5000,
			MaxSendAttempts:  3,
			MaxReroutes:      3,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; it just means defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
