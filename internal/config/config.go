// Package config provides configuration loading and validation for the CLI and chat gateway.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Default values applied by MergeWithDefaults.
const (
	DefaultAPIBase   = "https://hirechatbackend-dycmdjfgdyhzhhfp.uksouth-01.azurewebsites.net"
	DefaultTimeout   = "30s"
	DefaultListen    = ":8080"
	DefaultRateLimit = 5.0
	DefaultRateBurst = 10
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIBase     = "HIRECHAT_API_BASE"
	EnvSessionFile = "HIRECHAT_SESSION_FILE"
	EnvHistoryFile = "HIRECHAT_HISTORY_FILE"
	EnvTimeout     = "HIRECHAT_TIMEOUT"
	EnvListen      = "HIRECHAT_LISTEN"
	EnvVerbose     = "HIRECHAT_VERBOSE"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Remote API
	APIBase string `json:"api_base,omitempty"` // Root URL of the Hirechat API
	Timeout string `json:"timeout,omitempty"`  // Per-request timeout, e.g. "30s"

	// Local state
	SessionFile string `json:"session_file,omitempty"` // Where the login session is stored
	HistoryFile string `json:"history_file,omitempty"` // SQLite chat history; defaults next to the session file

	// Chat gateway
	Listen         string   `json:"listen,omitempty"`          // Address the gateway binds to
	RateLimit      float64  `json:"rate_limit,omitempty"`      // Requests per second per client
	RateBurst      int      `json:"rate_burst,omitempty"`      // Burst size per client
	AllowedOrigins []string `json:"allowed_origins,omitempty"` // CORS origins; empty allows any

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Debug logging
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBase:   DefaultAPIBase,
		Timeout:   DefaultTimeout,
		Listen:    DefaultListen,
		RateLimit: DefaultRateLimit,
		RateBurst: DefaultRateBurst,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: file (optional), then environment, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields with the HIRECHAT_* environment variables that are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAPIBase); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv(EnvSessionFile); v != "" {
		c.SessionFile = v
	}
	if v := os.Getenv(EnvHistoryFile); v != "" {
		c.HistoryFile = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", EnvVerbose, err)
		}
		c.Verbose = verbose
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.APIBase != "" {
		parsed, err := url.Parse(c.APIBase)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config error: 'api_base' must be an absolute URL, got %q", c.APIBase)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("config error: 'api_base' must use http or https, got %q", parsed.Scheme)
		}
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'timeout': %v", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'timeout' must be positive")
		}
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'rate_limit' must be non-negative")
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("config error: 'rate_burst' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIBase == "" {
		result.APIBase = defaults.APIBase
	}
	if result.Timeout == "" {
		result.Timeout = defaults.Timeout
	}
	if result.SessionFile == "" {
		result.SessionFile = defaults.SessionFile
	}
	if result.Listen == "" {
		result.Listen = defaults.Listen
	}

	// Numeric fields: use default if zero
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}
	if result.RateBurst == 0 {
		result.RateBurst = defaults.RateBurst
	}

	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// TimeoutDuration returns Timeout parsed, falling back to DefaultTimeout.
func (c *Config) TimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultTimeout)
	return d
}
