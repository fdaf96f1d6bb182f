package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/stretchr/testify/assert"
)

func TestErrEmailAlreadyExists(t *testing.T) {
	err := &ErrEmailAlreadyExists{Email: "test@example.com"}
	assert.Equal(t, "email already registered: test@example.com", err.Error())
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestErrInvalidCredentials(t *testing.T) {
	err := &ErrInvalidCredentials{}
	assert.Equal(t, "invalid email or password", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"email exists", &ErrEmailAlreadyExists{Email: "a@b.co"}, http.StatusConflict},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"code unavailable", fmt.Errorf("register: %w", db.ErrCodeUnavailable), http.StatusBadRequest},
		{"input", &apperr.InputError{Field: "duration", Message: "bad"}, http.StatusBadRequest},
		{"not found", &apperr.NotFoundError{Resource: "resume", ID: "x"}, http.StatusNotFound},
		{"conflict", &apperr.ConflictError{Message: "done"}, http.StatusConflict},
		{"quota", apperr.RateLimited(nil), http.StatusTooManyRequests},
		{"payment", apperr.PaymentRequired(nil), http.StatusPaymentRequired},
		{"unknown", assert.AnError, http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestWriteError_Messages(t *testing.T) {
	s := &Server{}
	r := httptest.NewRequest(http.MethodGet, "/api/interviews", nil)

	w := httptest.NewRecorder()
	s.writeError(w, r, apperr.PaymentRequired(errors.New("gateway said 402")))
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{"error":"Payment required. Please add credits to your workspace."}`, w.Body.String())

	w = httptest.NewRecorder()
	s.writeError(w, r, &apperr.UnauthorizedError{Reason: "not the owner"})
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = httptest.NewRecorder()
	s.writeError(w, r, fmt.Errorf("start interview: %w", &apperr.InputError{Field: "duration", Message: "must be 5, 10 or 15"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"duration: must be 5, 10 or 15"}`, w.Body.String())

	w = httptest.NewRecorder()
	s.writeError(w, r, fmt.Errorf("parse resume: %w", &apperr.ParseError{Message: "no JSON object in model response"}))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to parse AI response"}`, w.Body.String())

	w = httptest.NewRecorder()
	s.writeError(w, r, fmt.Errorf("register: %w", db.ErrCodeUnavailable))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"`+db.ErrCodeUnavailable.Error()+`"}`, w.Body.String())

	w = httptest.NewRecorder()
	s.writeError(w, r, errors.New("connection reset by peer"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
