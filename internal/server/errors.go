package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/rs/zerolog/log"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		exists  *ErrEmailAlreadyExists
		invalid *ErrInvalidCredentials
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &exists):
		return http.StatusConflict
	case errors.As(err, &invalid):
		return http.StatusUnauthorized
	case errors.Is(err, db.ErrCodeUnavailable):
		return http.StatusBadRequest
	default:
		return apperr.HTTPStatus(err)
	}
}

// writeError maps err to a status and writes {"error": message}. Account errors carry
// their own text; everything else is worded by apperr.Message. Internal failures are logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)

	var (
		exists   *ErrEmailAlreadyExists
		invalid  *ErrInvalidCredentials
		upstream *apperr.UpstreamError
	)
	var message string
	switch {
	case errors.As(err, &exists):
		message = exists.Error()
	case errors.As(err, &invalid):
		message = invalid.Error()
	case errors.Is(err, db.ErrCodeUnavailable):
		message = db.ErrCodeUnavailable.Error()
	default:
		message = apperr.Message(err)
	}
	if status == http.StatusInternalServerError && !errors.As(err, &upstream) {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	s.errorResponse(w, status, message)
}
