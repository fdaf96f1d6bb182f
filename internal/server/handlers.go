package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/server/middleware"
	"github.com/google/uuid"
)

// Request body ceilings. Parse requests may carry a base64 document.
const (
	maxJSONBody     = 1 << 20
	maxDocumentBody = 15 << 20
	maxUploadBytes  = 10 << 20
)

// caller returns the authenticated user's ID.
func caller(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		return uuid.Nil, &apperr.UnauthorizedError{Reason: "no session"}
	}
	return id, nil
}

// checkBodyUser rejects a body userId that names anyone but the caller.
func checkBodyUser(callerID uuid.UUID, bodyUserID string) error {
	bodyUserID = strings.TrimSpace(bodyUserID)
	if bodyUserID == "" {
		return nil
	}
	id, err := uuid.Parse(bodyUserID)
	if err != nil || id != callerID {
		return &apperr.UnauthorizedError{Reason: "userId does not match the session"}
	}
	return nil
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &apperr.InputError{Message: "request body too large"}
		}
		if errors.Is(err, io.EOF) {
			return &apperr.InputError{Message: "request body is required"}
		}
		return &apperr.InputError{Message: "Invalid request body"}
	}
	return nil
}

// pathID parses a {id} path value.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &apperr.InputError{Field: name, Message: "must be a UUID"}
	}
	return id, nil
}

// requireID rejects a missing body ID.
func requireID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return &apperr.InputError{Field: field, Message: "is required"}
	}
	return nil
}
