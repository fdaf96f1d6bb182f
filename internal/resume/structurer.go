// Package resume turns extracted resume text into structured highlights and persists them.
package resume

import (
	"context"
	"fmt"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/llm"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/prompts"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/schemas"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxResumeChars bounds the text sent to the model.
const maxResumeChars = 30000

// Store persists structured highlights
type Store interface {
	UpsertResumeHighlights(ctx context.Context, resumeID uuid.UUID, h *types.ResumeHighlights, extractedText string) error
}

// Structurer extracts ResumeHighlights from text with the language model
type Structurer struct {
	client llm.Client
	store  Store
}

// NewStructurer creates a Structurer. store may be nil when only Structure is used.
func NewStructurer(client llm.Client, store Store) *Structurer {
	return &Structurer{client: client, store: store}
}

// Structure asks the model for the highlights JSON. A response without a parseable
// object, or one that fails the schema, is a *apperr.ParseError.
func (s *Structurer) Structure(ctx context.Context, text string) (*types.ResumeHighlights, error) {
	text = llm.TruncateBytes(text, maxResumeChars)

	system, err := prompts.Get("resume.json", "structure-system")
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt: %w", err)
	}
	user, err := prompts.Render("resume.json", "structure-user", map[string]string{"ResumeText": text})
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt: %w", err)
	}

	resp, err := s.client.GenerateContent(ctx, system, user, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	raw, ok := llm.ExtractJSONObject(resp)
	if !ok {
		return nil, &apperr.ParseError{Message: "no JSON object in resume response"}
	}
	if err := schemas.Validate(schemas.ResumeHighlights, []byte(raw)); err != nil {
		return nil, &apperr.ParseError{Message: "resume response does not match schema", Cause: err}
	}

	var h types.ResumeHighlights
	if err := llm.DecodeJSONObject(raw, &h); err != nil {
		return nil, err
	}
	h.Normalize()
	return &h, nil
}

// Parse structures the text and replaces the resume's stored highlights
func (s *Structurer) Parse(ctx context.Context, resumeID uuid.UUID, text string) (*types.ResumeHighlights, error) {
	h, err := s.Structure(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertResumeHighlights(ctx, resumeID, h, text); err != nil {
		return nil, fmt.Errorf("failed to save highlights: %w", err)
	}

	log.Info().
		Str("resume_id", resumeID.String()).
		Int("skills", len(h.Skills)).
		Int("projects", len(h.Projects)).
		Int("experience", len(h.Experience)).
		Msg("resume parsed")
	return h, nil
}
