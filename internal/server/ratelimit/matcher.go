package ratelimit

import (
	"strings"
)

// MatchEndpoint resolves the configuration for a request path and method.
// Exact matches win over prefix matches; nil means the default limit applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	// Health and metrics probes are never metered.
	if method == "GET" && (path == "/health" || path == "/metrics") {
		return &EndpointConfig{Limit: 0}
	}

	var prefixMatch *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method {
			continue
		}
		if config.Path == path {
			return config
		}
		if prefixMatch == nil && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			prefixMatch = config
		}
	}
	return prefixMatch
}
