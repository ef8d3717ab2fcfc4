package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for requests that never consume tokens.
var unlimited = &EndpointConfig{}

// MatchEndpoint picks the configuration for a request, or nil to fall back to the defaults.
// Health checks and CORS preflights are unlimited. An exact path wins over a prefix;
// configured paths ending in "/" are prefixes, so "/chat/" covers "/chat/manager".
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodOptions || (method == http.MethodGet && path == "/health") {
		return unlimited
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		switch {
		case c.Path == path:
			return c
		case prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path):
			prefix = c
		}
	}
	return prefix
}
