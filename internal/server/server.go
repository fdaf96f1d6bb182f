// Package server provides the HTTP REST API for the interview simulator.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/admin"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/ats"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/avatar"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/config"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/evaluation"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/extraction"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/interviews"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/llm"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/questions"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/resume"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/server/middleware"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/server/ratelimit"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/storage"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/voice"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ResumeStore is the resume persistence the handlers use directly
type ResumeStore interface {
	CreateResume(ctx context.Context, userID uuid.UUID, fileRef, fileName, mimeType string) (*db.Resume, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.Resume, error)
	GetResumeHighlights(ctx context.Context, resumeID uuid.UUID) (*types.ResumeHighlights, error)
}

// ObjectStore holds uploaded resume files
type ObjectStore interface {
	PutResume(ctx context.Context, ownerID uuid.UUID, fileName, contentType string, data []byte) (string, error)
	GetResume(ctx context.Context, key string) ([]byte, error)
}

// Services are the components the handlers delegate to. Objects, Avatar and AvatarRelay
// are optional; their routes answer 503 or are not mounted when nil.
type Services struct {
	Users       *UserService
	JWT         *JWTService
	Resumes     ResumeStore
	Objects     ObjectStore
	Extractor   *extraction.Extractor
	Structurer  *resume.Structurer
	Scorer      *ats.Scorer
	Interviews  *interviews.Service
	Evaluator   *evaluation.Evaluator
	Admin       *admin.Service
	Avatar      *avatar.Proxy
	AvatarRelay http.Handler
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	services    *Services
	rateLimiter *ratelimit.Limiter
	corsOrigin  string
	closers     []func()
}

// New connects every backing service named in cfg and builds the server.
func New(ctx context.Context, cfg *config.Server) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	closers := []func(){database.Close}
	fail := func(err error) (*Server, error) {
		for _, c := range closers {
			c()
		}
		return nil, err
	}

	var objects ObjectStore
	if cfg.Storage.Endpoint != "" {
		minio, err := storage.NewMinIO(ctx, storage.MinIOConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return fail(fmt.Errorf("failed to connect to object storage: %w", err))
		}
		objects = minio
	} else {
		log.Warn().Msg("MINIO_ENDPOINT not set, resume uploads disabled")
	}

	var cache storage.TextCache
	if cfg.RedisURL != "" {
		redis, err := storage.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fail(fmt.Errorf("failed to connect to redis: %w", err))
		}
		closers = append(closers, func() { _ = redis.Close() })
		cache = redis
	}

	client, err := llm.NewGatewayClient(llm.NewConfig(cfg.LLM.Model, cfg.LLM.AdvancedModel), cfg.LLM.BaseURL, cfg.LLM.APIKey, nil)
	if err != nil {
		return fail(fmt.Errorf("failed to create LLM client: %w", err))
	}

	var ocr llm.Transcriber
	if cfg.LLM.GeminiAPIKey != "" {
		vision, err := llm.NewVisionClient(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.VisionModel)
		if err != nil {
			return fail(fmt.Errorf("failed to create vision client: %w", err))
		}
		closers = append(closers, func() { _ = vision.Close() })
		ocr = vision
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, OCR fallback disabled")
	}

	var calls voice.CallFetcher
	if cfg.Voice.PrivateKey != "" {
		calls = voice.NewClient(cfg.Voice.BaseURL, cfg.Voice.PrivateKey, nil)
	}

	svc := &Services{
		Users:      NewUserService(database, cfg.Password),
		JWT:        NewJWTService(cfg.JWT),
		Resumes:    database,
		Objects:    objects,
		Extractor:  extraction.NewExtractor(ocr, cache),
		Structurer: resume.NewStructurer(client, database),
		Scorer:     ats.NewScorer(client, database),
		Interviews: interviews.NewService(database, questions.NewBuilder(nil)),
		Evaluator:  evaluation.NewEvaluator(client, database, calls),
		Admin:      admin.NewService(database),
	}
	switch cfg.Avatar.Mode {
	case config.AvatarModeHTTP:
		svc.Avatar = avatar.NewProxy(avatar.NewClient(cfg.Avatar.BaseURL, cfg.Avatar.APIKey, nil), cfg.Avatar.SourceURL, cfg.Avatar.Provider)
	case config.AvatarModeSocket:
		svc.AvatarRelay = avatar.NewRelay(cfg.Avatar.SocketURL, cfg.Avatar.APIKey, origins(cfg.CORSOrigin))
	}

	s := NewWithServices(cfg, svc)
	s.closers = closers
	return s, nil
}

// NewWithServices builds the router over already constructed services.
func NewWithServices(cfg *config.Server, svc *Services) *Server {
	s := &Server{
		services:    svc,
		rateLimiter: ratelimit.NewLimiter(ratelimit.FromConfig(cfg.RateLimit)),
		corsOrigin:  cfg.CORSOrigin,
	}

	auth := middleware.RequireUser(svc.JWT.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	authHandler := NewAuthHandler(svc.Users, svc.JWT)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Resumes
	mux.Handle("POST /api/resumes/upload", protected(s.handleUploadResume))
	mux.Handle("POST /api/resumes/extract", protected(s.handleExtractResume))
	mux.Handle("POST /api/resumes/parse", protected(s.handleParseResume))
	mux.Handle("POST /api/resumes/ats", protected(s.handleScoreATS))
	mux.Handle("GET /api/resumes/{id}/highlights", protected(s.handleGetHighlights))

	// Interviews
	mux.Handle("POST /api/interviews", protected(s.handleCreateInterview))
	mux.Handle("GET /api/interviews", protected(s.handleListInterviews))
	mux.Handle("POST /api/interviews/start", protected(s.handleStartInterview))
	mux.Handle("POST /api/interviews/session", protected(s.handleRecordSession))
	mux.Handle("POST /api/interviews/complete", protected(s.handleCompleteInterview))
	mux.Handle("POST /api/interviews/cancel", protected(s.handleCancelInterview))
	mux.Handle("POST /api/interviews/evaluate", protected(s.handleEvaluateInterview))
	mux.Handle("GET /api/interviews/{id}/evaluation", protected(s.handleGetEvaluation))

	// Avatar: only the configured variant is mounted
	if svc.Avatar != nil {
		mux.Handle("POST /api/avatar", protected(s.handleAvatarAction))
	}
	if svc.AvatarRelay != nil {
		mux.Handle("GET /api/avatar/ws", auth(svc.AvatarRelay))
	}

	// Admin
	mux.Handle("POST /api/admin/codes", protected(s.handleCreateCode))
	mux.Handle("GET /api/admin/codes", protected(s.handleListCodes))
	mux.Handle("POST /api/admin/codes/{id}/deactivate", protected(s.handleDeactivateCode))
	mux.Handle("GET /api/admin/cohort", protected(s.handleCohort))
	mux.Handle("GET /api/admin/analytics", protected(s.handleAnalytics))
	mux.Handle("GET /api/admin/export", protected(s.handleExport))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      180 * time.Second, // evaluation calls the advanced model
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	log.Info().Msg("server stopped")
	return nil
}

// Close stops the rate limiter and releases backing connections.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func origins(corsOrigin string) []string {
	var out []string
	for _, o := range strings.Split(corsOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			out = append(out, o)
		}
	}
	return out
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowed := origins(s.corsOrigin)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(allowed) > 0 {
			origin = allowed[0]
			for _, o := range allowed {
				if o == r.Header.Get("Origin") {
					origin = o
				}
			}
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Client-Info, Apikey")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for request logging. It passes Hijack through
// so WebSocket upgrades keep working behind the middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier (IP) from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Warn().
		Str("path", r.URL.Path).
		Int("limit", info.Limit).
		Time("reset_at", info.ResetTime).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
