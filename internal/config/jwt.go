package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// JWTConfig controls how the chat gateway checks bearer tokens.
// With an empty Secret tokens are decoded without signature verification and only
// their expiry is enforced; the remote API remains the authority.
type JWTConfig struct {
	Secret        string
	LeewaySeconds int
}

// NewJWTConfig creates a JWT configuration from environment variables.
// It reads HIRECHAT_JWT_SECRET (optional) and HIRECHAT_JWT_LEEWAY_SECONDS (default: 30).
func NewJWTConfig() (*JWTConfig, error) {
	leewayStr := os.Getenv("HIRECHAT_JWT_LEEWAY_SECONDS")
	if leewayStr == "" {
		leewayStr = "30" // default
	}

	leeway, err := strconv.Atoi(leewayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HIRECHAT_JWT_LEEWAY_SECONDS: %v", err)
	}

	config := &JWTConfig{
		Secret:        os.Getenv("HIRECHAT_JWT_SECRET"),
		LeewaySeconds: leeway,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// Verifying reports whether signatures are checked.
func (c *JWTConfig) Verifying() bool {
	return c.Secret != ""
}

// Leeway returns the allowed clock skew.
func (c *JWTConfig) Leeway() time.Duration {
	return time.Duration(c.LeewaySeconds) * time.Second
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.LeewaySeconds < 0 {
		return fmt.Errorf("HIRECHAT_JWT_LEEWAY_SECONDS must be non-negative, got: %d", c.LeewaySeconds)
	}
	return nil
}
