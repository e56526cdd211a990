package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// Defaults applied when no environment overrides are set.
const (
	defaultLimit           = 1000
	defaultWindow          = time.Minute
	defaultCleanupInterval = 5 * time.Minute
)

// EndpointConfig limits one endpoint. Paths ending in "/" are matched by
// prefix so patterns like "/restaurants/{yelp_id}" can share a config.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig builds the limiter configuration from environment variables,
// falling back to the package defaults.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", defaultLimit),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", defaultWindow),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", defaultCleanupInterval),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits.
//
// Collection endpoints call the upstream search API and are the most
// expensive requests the server takes, so they get the strictest limits.
// The purge endpoint is destructive and limited almost as hard. Reads fall
// through to the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/collect", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/collect/stream", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/restaurants", Method: "DELETE", Limit: 10, Window: time.Hour, Burst: 2},
	}
}

// Unparseable or unset variables fall back to the given default.

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}
