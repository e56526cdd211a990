// Package config provides configuration loading and validation for the collector.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultLocations is the static list collected when none is configured.
func DefaultLocations() []string {
	return []string{
		"Los Angeles, CA",
		"Santa Monica, CA",
		"Beverly Hills, CA",
		"Culver City, CA",
	}
}

// Config holds everything the pipeline components need. It is constructed
// once at startup and passed by reference; no component reads credentials
// from process state on its own.
type Config struct {
	// Credentials
	APIKey      string `json:"api_key,omitempty" validate:"required"`
	DatabaseURL string `json:"database_url,omitempty" validate:"required"`

	// Collection
	Locations []string `json:"locations,omitempty" validate:"omitempty,min=1,dive,required"`
	Limit     int      `json:"limit,omitempty" validate:"omitempty,min=30,max=50"`

	// Relay (optional): batches are POSTed here when set.
	RelayURL string `json:"relay_url,omitempty" validate:"omitempty,url"`

	// Scheduler
	IntervalSeconds int  `json:"interval_seconds,omitempty" validate:"omitempty,min=1"`
	RunAtStart      bool `json:"run_at_start,omitempty"`

	// Server
	Port int `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`

	// Dedup cache bounds
	SeenMaxEntries int `json:"seen_max_entries,omitempty" validate:"omitempty,min=1"`
	SeenTTLSeconds int `json:"seen_ttl_seconds,omitempty" validate:"omitempty,min=1"`

	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file. The file is checked
// against the embedded schema before unmarshalling so malformed configs
// fail with field-level errors.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := ValidateConfigBytes(data); err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv fills empty credential and relay fields from the process
// environment. Explicit config values win over the environment.
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("YELP_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.RelayURL == "" {
		c.RelayURL = os.Getenv("RELAY_URL")
	}
}

// Validate checks that the configuration has valid values. Missing
// credentials are a fatal startup condition.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: api_key is required (flag, config file, or YELP_API_KEY)")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: database_url is required (flag, config file, or DATABASE_URL)")
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if len(result.Locations) == 0 {
		result.Locations = defaults.Locations
	}
	if result.Limit == 0 {
		result.Limit = defaults.Limit
	}
	if result.RelayURL == "" {
		result.RelayURL = defaults.RelayURL
	}
	if result.IntervalSeconds == 0 {
		result.IntervalSeconds = defaults.IntervalSeconds
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.SeenMaxEntries == 0 {
		result.SeenMaxEntries = defaults.SeenMaxEntries
	}
	if result.SeenTTLSeconds == 0 {
		result.SeenTTLSeconds = defaults.SeenTTLSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the stock configuration: full result limit, daily
// schedule, bounded day-long dedup cache.
func Defaults() Config {
	return Config{
		Locations:       DefaultLocations(),
		Limit:           50,
		IntervalSeconds: 86400,
		Port:            8080,
		SeenMaxEntries:  10000,
		SeenTTLSeconds:  86400,
	}
}

// Interval returns the scheduler period.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// SeenTTL returns how long dedup cache entries live.
func (c *Config) SeenTTL() time.Duration {
	return time.Duration(c.SeenTTLSeconds) * time.Second
}

// JWTConfig holds configuration for operator token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS
// (default: 24) from the environment.
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	expirationHours := 24
	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		expirationHours = parsed
	}
	if expirationHours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", expirationHours)
	}

	return &JWTConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
	}, nil
}
