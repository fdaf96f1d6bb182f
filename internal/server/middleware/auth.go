// Package middleware authenticates API requests with bearer session tokens.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type contextKey struct{}

// TokenValidator verifies a session token. The server's JWT service satisfies it
// through an adapter so this package does not import the server.
type TokenValidator interface {
	ValidateToken(token string) (UserIDGetter, error)
}

// UserIDGetter exposes the user a validated token belongs to.
type UserIDGetter interface {
	GetUserID() uuid.UUID
}

// RequireUser rejects requests without a valid bearer token with the uniform 401 body
// and stores the token's user ID in the request context otherwise.
func RequireUser(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				log.Debug().Str("path", r.URL.Path).Msg("request without bearer token")
				Unauthorized(w)
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected session token")
				Unauthorized(w)
				return
			}
			userID := claims.GetUserID()
			if userID == uuid.Nil {
				Unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// bearerToken reads the token from the Authorization header. Browsers cannot set headers
// on WebSocket handshakes, so upgrade requests may pass it as the access_token query value.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			token := strings.TrimSpace(r.URL.Query().Get("access_token"))
			return token, token != ""
		}
		return "", false
	}

	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != "" && !strings.ContainsAny(token, " \t")
}

// Unauthorized writes the uniform 401 body.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
}

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the authenticated user ID stored by RequireUser.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
