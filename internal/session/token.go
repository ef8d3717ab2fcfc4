package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ParseClaims decodes a JWT access token without verifying its signature.
// The signing key belongs to the API server; the client only reads the claims.
func ParseClaims(token string) (*jwt.RegisteredClaims, error) {
	if token == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}
	return claims, nil
}

// TokenExpired reports whether token carries an exp claim before now.
// Opaque tokens and tokens without exp never expire client-side.
func TokenExpired(token string, now time.Time) bool {
	claims, err := ParseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
