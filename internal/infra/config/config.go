// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Playback PlaybackConfig `yaml:"playback"`
	Settings SettingsConfig `yaml:"settings"`
}

// ServerConfig represents the HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":8090"`
}

// APIConfig represents the upstream music API configuration.
type APIConfig struct {
	BaseURL   string `yaml:"base_url" validate:"required,url"`
	TimeoutMs int    `yaml:"timeout_ms" default:"10000" validate:"gte=100,lte=120000"`
}

// PlaybackConfig represents playback configuration.
type PlaybackConfig struct {
	Backend          BackendConfig `yaml:"backend"`
	AnnouncerEnabled bool          `yaml:"announcer_enabled"`
}

// BackendConfig represents the audio backend configuration.
type BackendConfig struct {
	Type     string         `yaml:"type" default:"null"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// SettingsConfig represents local settings storage configuration.
type SettingsConfig struct {
	DBPath string `yaml:"db_path" default:"quaver.db"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("QUAVER_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("QUAVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("QUAVER_SETTINGS_DB"); v != "" {
		c.Settings.DBPath = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
