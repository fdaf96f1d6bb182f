package ratelimit

import (
	"net/http"
	"time"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // maximum requests per window
	Window time.Duration // time window
	Burst  int           // burst capacity (defaults to Limit if 0)
}

// FromConfig builds the limiter configuration from the server configuration.
func FromConfig(c config.RateLimitConfig) *Config {
	if !c.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    c.DefaultLimit,
		DefaultWindow:   c.DefaultWindow,
		CleanupInterval: 5 * time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(c.AILimit, c.AIWindow),
	}
}

// DefaultEndpointConfigs returns the endpoint limits. Endpoints that call the language
// model share the aiLimit budget per window.
func DefaultEndpointConfigs(aiLimit int, aiWindow time.Duration) []EndpointConfig {
	aiBurst := max(1, aiLimit/5)
	return []EndpointConfig{
		// Language-model and OCR calls
		{Path: "/api/resumes/extract", Method: http.MethodPost, Limit: aiLimit, Window: aiWindow, Burst: aiBurst},
		{Path: "/api/resumes/parse", Method: http.MethodPost, Limit: aiLimit, Window: aiWindow, Burst: aiBurst},
		{Path: "/api/resumes/ats", Method: http.MethodPost, Limit: aiLimit, Window: aiWindow, Burst: aiBurst},
		{Path: "/api/interviews/evaluate", Method: http.MethodPost, Limit: aiLimit, Window: aiWindow, Burst: aiBurst},

		// Credential endpoints
		{Path: "/api/auth/", Method: http.MethodPost, Limit: 20, Window: time.Minute, Burst: 5},

		// Writes
		{Path: "/api/resumes", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/interviews/", Method: http.MethodPost, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/admin/", Method: http.MethodPost, Limit: 100, Window: time.Minute, Burst: 10},
	}
}
