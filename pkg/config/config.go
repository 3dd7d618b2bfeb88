package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all traylingo configuration.
type Config struct {
	Listen    string          `yaml:"listen"`
	StorePath string          `yaml:"store_path"`
	DBPath    string          `yaml:"db_path"`
	API       APIConfig       `yaml:"api"`
	Model     string          `yaml:"model"`
	Cache     CacheConfig     `yaml:"cache"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// APIConfig defines the upstream completion endpoint.
type APIConfig struct {
	URL     string        `yaml:"url"`
	Version string        `yaml:"version"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig controls the translation cache.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	MaxEntries int           `yaml:"max_entries"`
	TTL        time.Duration `yaml:"ttl"`
}

// TelemetryConfig controls diagnostics recording.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen:    "127.0.0.1:8484",
		StorePath: "traylingo.json",
		DBPath:    "traylingo.db",
		API: APIConfig{
			URL:     "https://api.anthropic.com/v1/messages",
			Version: "2023-06-01",
			Timeout: 30 * time.Second,
		},
		Model: "claude-haiku-4-5-20251001",
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 100,
			TTL:        30 * 24 * time.Hour,
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
