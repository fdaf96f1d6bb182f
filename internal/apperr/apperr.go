// Package apperr defines the closed set of error variants that cross package boundaries
// and their mapping to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// UnauthorizedError indicates a missing or invalid session, or a caller acting on
// another user's data.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	return "Unauthorized"
}

// UpstreamError represents a failure reported by an external AI or media service.
// Status carries the HTTP status surfaced to the caller (429, 402 or 500).
type UpstreamError struct {
	Status  int
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// ParseError represents a model response that does not contain usable JSON.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// InputError represents an invalid request: missing fields, unreadable documents.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NotFoundError indicates a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError indicates the request conflicts with the current state of a record,
// such as an interview lifecycle transition that is no longer allowed.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Quota status codes returned by the language-model gateway.
const (
	StatusRateLimited     = http.StatusTooManyRequests
	StatusPaymentRequired = http.StatusPaymentRequired
)

// RateLimited returns the error surfaced when the gateway answers 429.
func RateLimited(cause error) *UpstreamError {
	return &UpstreamError{
		Status:  StatusRateLimited,
		Message: "Rate limit exceeded. Please try again later.",
		Cause:   cause,
	}
}

// PaymentRequired returns the error surfaced when the gateway answers 402.
func PaymentRequired(cause error) *UpstreamError {
	return &UpstreamError{
		Status:  StatusPaymentRequired,
		Message: "Payment required. Please add credits to your workspace.",
		Cause:   cause,
	}
}

// Failed returns a generic upstream failure carrying message verbatim.
func Failed(message string, cause error) *UpstreamError {
	return &UpstreamError{
		Status:  http.StatusInternalServerError,
		Message: message,
		Cause:   cause,
	}
}

// HTTPStatus returns the transport status code for err.
func HTTPStatus(err error) int {
	var (
		unauthorized *UnauthorizedError
		upstream     *UpstreamError
		parse        *ParseError
		input        *InputError
		notFound     *NotFoundError
		conflict     *ConflictError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &upstream):
		if upstream.Status != 0 {
			return upstream.Status
		}
		return http.StatusInternalServerError
	case errors.As(err, &input):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &parse):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing text for err. Unclassified errors are not exposed.
func Message(err error) string {
	var (
		unauthorized *UnauthorizedError
		upstream     *UpstreamError
		parse        *ParseError
		input        *InputError
		notFound     *NotFoundError
		conflict     *ConflictError
	)
	switch {
	case errors.As(err, &unauthorized):
		return unauthorized.Error()
	case errors.As(err, &upstream):
		return upstream.Message
	case errors.As(err, &input):
		return input.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &conflict):
		return conflict.Error()
	case errors.As(err, &parse):
		return "Failed to parse AI response"
	default:
		return "Internal server error"
	}
}
