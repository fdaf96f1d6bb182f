// Package config loads the server configuration from the environment.
// Secrets are read once here and passed to components through constructors.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Avatar proxy variants selectable through AVATAR_MODE.
const (
	AvatarModeHTTP   = "http"
	AvatarModeSocket = "socket"
	AvatarModeOff    = "off"
)

// Server holds everything the HTTP server and its components need.
type Server struct {
	Port        int
	DatabaseURL string
	CORSOrigin  string
	RedisURL    string // optional; extraction cache disabled when empty

	LLM       LLMConfig
	Voice     VoiceConfig
	Avatar    AvatarConfig
	Storage   StorageConfig
	JWT       JWTConfig
	Password  *PasswordConfig
	RateLimit RateLimitConfig
}

// LLMConfig configures the chat-completions gateway and the vision model used for OCR.
type LLMConfig struct {
	BaseURL       string
	APIKey        string
	Model         string
	AdvancedModel string
	GeminiAPIKey  string // vision OCR fallback; OCR disabled when empty
	VisionModel   string
}

// VoiceConfig configures the voice-agent platform REST client.
type VoiceConfig struct {
	BaseURL    string
	PrivateKey string
}

// AvatarConfig configures the talking-avatar platform.
type AvatarConfig struct {
	Mode      string
	BaseURL   string
	SocketURL string
	APIKey    string
	SourceURL string // presenter image used when a stream is created
	Provider  string // TTS provider forwarded with talk requests
}

// StorageConfig configures the S3-compatible object store holding resume files.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// RateLimitConfig controls the per-client request limiter.
type RateLimitConfig struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	AILimit       int // limit for endpoints that call the language model
	AIWindow      time.Duration
}

// Lookup reads a single configuration value. os.Getenv satisfies it.
type Lookup func(key string) string

// Load reads the server configuration from the process environment.
func Load() (*Server, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the server configuration through getenv.
func LoadFrom(getenv Lookup) (*Server, error) {
	env := envReader{get: getenv}

	password, err := newPasswordConfig(env.int("BCRYPT_COST", DefaultBcryptCost), getenv("PASSWORD_PEPPER"))
	if err != nil {
		return nil, err
	}

	cfg := &Server{
		Port:        env.int("PORT", 8080),
		DatabaseURL: getenv("DATABASE_URL"),
		CORSOrigin:  env.string("CORS_ORIGIN", "*"),
		RedisURL:    getenv("REDIS_URL"),
		LLM:         llmConfig(&env),
		Voice: VoiceConfig{
			BaseURL:    env.string("VAPI_BASE_URL", "https://api.vapi.ai"),
			PrivateKey: getenv("VAPI_PRIVATE_KEY"),
		},
		Avatar: AvatarConfig{
			Mode:      strings.ToLower(env.string("AVATAR_MODE", AvatarModeHTTP)),
			BaseURL:   env.string("DID_BASE_URL", "https://api.d-id.com"),
			SocketURL: env.string("DID_SOCKET_URL", "wss://streaming.d-id.com"),
			APIKey:    getenv("DID_API_KEY"),
			SourceURL: getenv("DID_SOURCE_URL"),
			Provider:  env.string("DID_TTS_PROVIDER", "microsoft"),
		},
		Storage: StorageConfig{
			Endpoint:  getenv("MINIO_ENDPOINT"),
			AccessKey: getenv("MINIO_ACCESS_KEY"),
			SecretKey: getenv("MINIO_SECRET_KEY"),
			Bucket:    env.string("MINIO_BUCKET", "resumes"),
			UseSSL:    env.bool("MINIO_USE_SSL", false),
		},
		JWT: JWTConfig{
			Secret:          getenv("JWT_SECRET"),
			ExpirationHours: env.int("JWT_EXPIRATION_HOURS", 24),
		},
		Password: password,
		RateLimit: RateLimitConfig{
			Enabled:       env.bool("RATE_LIMIT_ENABLED", true),
			DefaultLimit:  env.int("RATE_LIMIT_DEFAULT_LIMIT", 600),
			DefaultWindow: env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
			AILimit:       env.int("RATE_LIMIT_AI_LIMIT", 30),
			AIWindow:      env.duration("RATE_LIMIT_AI_WINDOW", time.Hour),
		},
	}

	if env.err != nil {
		return nil, env.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLLM reads only the language-model settings. CLI commands that never touch the
// database use it instead of LoadFrom.
func LoadLLM(getenv Lookup) (*LLMConfig, error) {
	env := envReader{get: getenv}
	cfg := llmConfig(&env)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("config error: LLM_API_KEY is required")
	}
	return &cfg, nil
}

func llmConfig(env *envReader) LLMConfig {
	return LLMConfig{
		BaseURL:       env.string("LLM_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1"),
		APIKey:        env.get("LLM_API_KEY"),
		Model:         env.string("LLM_MODEL", "google/gemini-2.5-flash"),
		AdvancedModel: env.string("LLM_ADVANCED_MODEL", "google/gemini-2.5-pro"),
		GeminiAPIKey:  env.get("GEMINI_API_KEY"),
		VisionModel:   env.string("GEMINI_VISION_MODEL", "gemini-2.5-flash"),
	}
}

// Validate checks that the configuration has valid values.
func (c *Server) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: PORT out of range: %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("config error: LLM_API_KEY is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("config error: JWT_SECRET is required")
	}
	if c.JWT.ExpirationHours < 1 {
		return fmt.Errorf("config error: JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.JWT.ExpirationHours)
	}
	switch c.Avatar.Mode {
	case AvatarModeHTTP, AvatarModeSocket:
		if c.Avatar.APIKey == "" {
			return fmt.Errorf("config error: DID_API_KEY is required when AVATAR_MODE=%s", c.Avatar.Mode)
		}
	case AvatarModeOff:
	default:
		return fmt.Errorf("config error: unknown AVATAR_MODE %q", c.Avatar.Mode)
	}
	if c.Storage.Endpoint != "" && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return fmt.Errorf("config error: MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with MINIO_ENDPOINT")
	}
	return nil
}

// envReader collects the first conversion error so Load can report it once.
type envReader struct {
	get Lookup
	err error
}

func (e *envReader) string(key, def string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return def
}

func (e *envReader) int(key string, def int) int {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(fmt.Errorf("invalid %s: %v", key, err))
		return def
	}
	return n
}

func (e *envReader) bool(key string, def bool) bool {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(fmt.Errorf("invalid %s: %v", key, err))
		return def
	}
	return b
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(fmt.Errorf("invalid %s: %v", key, err))
		return def
	}
	return d
}

func (e *envReader) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}
