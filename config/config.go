// Package config loads the service configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agoraflux/agoraflux/sources"
)

// Duration wraps time.Duration so YAML values like "12h" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the service settings. Every field has a working default,
// so running without a config file is fine.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `yaml:"listen_addr"`
	// CachePath is where the country-profile snapshot is persisted.
	CachePath string `yaml:"cache_path"`
	// CacheTTL bounds the age of a served snapshot.
	CacheTTL Duration `yaml:"cache_ttl"`
	// FetchTimeout caps a single feed fetch.
	FetchTimeout Duration `yaml:"fetch_timeout"`
	// WorldBankRate limits World Bank indicator lookups per second.
	WorldBankRate float64 `yaml:"world_bank_rate"`
	// ExtraSources are appended to (or override) the built-in feed list.
	ExtraSources []sources.Source `yaml:"extra_sources"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ListenAddr:    ":8080",
		CachePath:     "assets/country-profiles-cache.json",
		CacheTTL:      Duration(12 * time.Hour),
		FetchTimeout:  Duration(15 * time.Second),
		WorldBankRate: 20,
		LogLevel:      "info",
	}
}

// Load reads the configuration at path. A missing file yields the
// defaults, not an error; a file that exists but cannot be parsed is an
// error. Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
