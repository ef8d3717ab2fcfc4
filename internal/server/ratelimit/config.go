package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string     // Endpoint path pattern (supports prefix matching)
	Method string     // HTTP method (GET, POST, etc.)
	Rate   rate.Limit // Sustained requests per second; zero means unlimited
	Burst  int        // Bucket size (defaults to 1 if 0)
}

// LoadConfig builds the limiter configuration around the gateway's base rate and burst.
// HIRECHAT_RATE_LIMIT_ENABLED and HIRECHAT_RATE_LIMIT_WHITELIST are read from the environment.
func LoadConfig(perSecond float64, burst int) *Config {
	if !envOr("HIRECHAT_RATE_LIMIT_ENABLED", true, strconv.ParseBool) || perSecond <= 0 {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultRate:     rate.Limit(perSecond * 4),
		DefaultBurst:    burst * 4,
		CleanupInterval: envOr("HIRECHAT_RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		IdleTimeout:     time.Hour,
		Whitelist:       parseIPList(os.Getenv("HIRECHAT_RATE_LIMIT_WHITELIST")),
		EndpointConfigs: DefaultEndpointConfigs(perSecond, burst),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// Chat turns reach the remote API and get the base rate; everything else is local.
func DefaultEndpointConfigs(perSecond float64, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/chat/", Method: http.MethodPost, Rate: rate.Limit(perSecond), Burst: burst},
		{Path: "/extract", Method: http.MethodPost, Rate: rate.Limit(perSecond * 2), Burst: burst * 2},
	}
}

// envOr parses the environment variable key, keeping fallback when it is unset or invalid.
func envOr[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

// parseIPList splits a comma-separated list of client IPs into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
