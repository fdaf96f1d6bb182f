package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg *Config) *Limiter {
	t.Helper()
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	return l
}

func TestLimiter_DefaultBudget(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := range 10 {
		allowed, info := l.Allow("10.0.0.1", "/api/interviews", http.MethodGet)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/api/interviews", http.MethodGet)
	assert.False(t, allowed)
	assert.Zero(t, info.Remaining)
	assert.Positive(t, info.RetryAfter)
	assert.True(t, info.ResetTime.After(time.Now()))
}

func TestLimiter_ClientLists(t *testing.T) {
	l := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"203.0.113.9": true},
	})

	for range 20 {
		allowed, _ := l.Allow("127.0.0.1", "/api/resumes/parse", http.MethodPost)
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("203.0.113.9", "/health", http.MethodGet)
	assert.False(t, allowed)
}

func TestLimiter_DisabledAllowsEverything(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: false})
	for range 50 {
		allowed, info := l.Allow("10.0.0.1", "/api/resumes/ats", http.MethodPost)
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_AIEndpointsHaveTheirOwnBudget(t *testing.T) {
	l := newTestLimiter(t, FromConfig(config.RateLimitConfig{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		AILimit:       10,
		AIWindow:      time.Hour,
	}))

	// Burst is a fifth of the AI limit.
	for range 2 {
		allowed, info := l.Allow("10.0.0.1", "/api/resumes/ats", http.MethodPost)
		require.True(t, allowed)
		assert.Equal(t, 10, info.Limit)
	}
	allowed, _ := l.Allow("10.0.0.1", "/api/resumes/ats", http.MethodPost)
	assert.False(t, allowed)

	// Other AI endpoints and plain reads are unaffected.
	allowed, _ = l.Allow("10.0.0.1", "/api/interviews/evaluate", http.MethodPost)
	assert.True(t, allowed)
	allowed, info := l.Allow("10.0.0.1", "/api/interviews", http.MethodGet)
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_PrefixSharesBucket(t *testing.T) {
	l := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/auth/", Method: http.MethodPost, Limit: 2, Window: time.Minute, Burst: 2},
		},
	})

	l.Allow("10.0.0.1", "/api/auth/login", http.MethodPost)
	l.Allow("10.0.0.1", "/api/auth/register", http.MethodPost)
	allowed, _ := l.Allow("10.0.0.1", "/api/auth/login", http.MethodPost)
	assert.False(t, allowed, "prefix-matched endpoints share one budget")

	allowed, _ = l.Allow("10.0.0.2", "/api/auth/login", http.MethodPost)
	assert.True(t, allowed, "each client has its own budget")
}

func TestLimiter_Concurrent(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("10.0.0.1", "/api/interviews", http.MethodGet); ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 100, allowed.Load())
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Minute})

	for i := range 10 {
		allowed, _ := l.Allow(fmt.Sprintf("10.0.0.%d", i+1), "/api/interviews", http.MethodGet)
		require.True(t, allowed)
	}

	l.cleanupBuckets(time.Now())
	assert.Len(t, l.buckets, 10)

	l.cleanupBuckets(time.Now().Add(2 * time.Minute))
	assert.Empty(t, l.buckets)
}

func TestLimiter_NilConfigAndStop(t *testing.T) {
	l := NewLimiter(nil)
	allowed, info := l.Allow("10.0.0.1", "/api/interviews", http.MethodGet)
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs(30, time.Hour)

	tests := []struct {
		path, method string
		wantPath     string
		wantLimit    int
	}{
		{"/api/resumes/parse", http.MethodPost, "/api/resumes/parse", 30},
		{"/api/resumes/extract", http.MethodPost, "/api/resumes/extract", 30},
		{"/api/interviews/evaluate", http.MethodPost, "/api/interviews/evaluate", 30},
		{"/api/interviews/start", http.MethodPost, "/api/interviews/", 100},
		{"/api/auth/login", http.MethodPost, "/api/auth/", 20},
		{"/api/resumes", http.MethodPost, "/api/resumes", 30},
		{"/api/admin/codes", http.MethodPost, "/api/admin/", 100},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			ec := MatchEndpoint(tt.path, tt.method, configs)
			require.NotNil(t, ec)
			assert.Equal(t, tt.wantPath, ec.Path)
			assert.Equal(t, tt.wantLimit, ec.Limit)
		})
	}

	assert.Nil(t, MatchEndpoint("/api/interviews", http.MethodGet, configs))
	assert.Nil(t, MatchEndpoint("/api/resumes/parse", http.MethodGet, configs))

	health := MatchEndpoint("/health", http.MethodGet, configs)
	require.NotNil(t, health)
	assert.Zero(t, health.Limit)
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.RateLimitConfig{
		Enabled:       true,
		DefaultLimit:  600,
		DefaultWindow: time.Minute,
		AILimit:       30,
		AIWindow:      time.Hour,
	})
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 600, cfg.DefaultLimit)
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)

	ec := MatchEndpoint("/api/interviews/evaluate", http.MethodPost, cfg.EndpointConfigs)
	require.NotNil(t, ec)
	assert.Equal(t, time.Hour, ec.Window)
	assert.Equal(t, 6, ec.Burst)

	assert.False(t, FromConfig(config.RateLimitConfig{Enabled: false}).Enabled)
}
