package server

import (
	"errors"
	"net/http"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/avatar"
	"github.com/rs/zerolog/log"
)

// handleAvatarAction forwards one avatar session action. When the platform is out of
// credits the client is told to continue with audio only.
func (s *Server) handleAvatarAction(w http.ResponseWriter, r *http.Request) {
	if _, err := caller(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req avatar.ActionRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.services.Avatar.Dispatch(r.Context(), req)
	if errors.Is(err, avatar.ErrInsufficientCredits) {
		log.Warn().Str("action", req.Action).Msg("avatar credits exhausted, falling back to audio")
		s.jsonResponse(w, http.StatusOK, map[string]string{
			"error":    "insufficient_credits",
			"fallback": "audio_only",
		})
		return
	}
	if err != nil {
		var apiErr *avatar.APIError
		if errors.As(err, &apiErr) {
			log.Error().Int("status", apiErr.StatusCode).Str("action", req.Action).Msg("avatar platform error")
			s.errorResponse(w, http.StatusBadGateway, "Avatar service error")
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
