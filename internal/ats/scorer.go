// Package ats scores a resume against a target job role with the language model.
package ats

import (
	"context"
	"errors"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/llm"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/prompts"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/schemas"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxResumeChars = 30000

// failureMessage is shown for every failure that is not a gateway quota error.
const failureMessage = "analysis failed"

// Store persists ATS scores
type Store interface {
	UpsertATSScore(ctx context.Context, resumeID uuid.UUID, jobRole string, r *types.ATSResult) (*db.ATSScore, error)
}

// Scorer runs the ATS rubric
type Scorer struct {
	client llm.Client
	store  Store
}

// NewScorer creates a Scorer. store may be nil when results are not persisted.
func NewScorer(client llm.Client, store Store) *Scorer {
	return &Scorer{client: client, store: store}
}

// Analyze scores the text without persisting it. Gateway 429/402 errors pass through;
// every other failure becomes a generic 500 "analysis failed".
func (s *Scorer) Analyze(ctx context.Context, resumeText, jobRole string) (*types.ATSResult, error) {
	jobRole = strings.TrimSpace(jobRole)
	if jobRole == "" {
		return nil, &apperr.InputError{Field: "jobRole", Message: "job role is required"}
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, &apperr.InputError{Field: "resumeText", Message: "resume text is required"}
	}
	resumeText = llm.TruncateBytes(resumeText, maxResumeChars)

	system, err := prompts.Get("ats.json", "score-system")
	if err != nil {
		return nil, apperr.Failed(failureMessage, err)
	}
	user, err := prompts.Render("ats.json", "score-user", map[string]string{
		"JobRole":    jobRole,
		"ResumeText": resumeText,
	})
	if err != nil {
		return nil, apperr.Failed(failureMessage, err)
	}

	resp, err := s.client.GenerateContent(ctx, system, user, llm.TierStandard)
	if err != nil {
		if llm.IsQuotaError(err) {
			return nil, err
		}
		return nil, apperr.Failed(failureMessage, err)
	}

	raw, ok := llm.ExtractJSONObject(resp)
	if !ok {
		return nil, apperr.Failed(failureMessage, errors.New("no JSON object in ATS response"))
	}
	if err := schemas.Validate(schemas.ATSResult, []byte(raw)); err != nil {
		return nil, apperr.Failed(failureMessage, err)
	}
	var result types.ATSResult
	if err := llm.DecodeJSONObject(raw, &result); err != nil {
		return nil, apperr.Failed(failureMessage, err)
	}
	result.Clamp()
	return &result, nil
}

// Score analyzes the resume and upserts the result for (resumeID, jobRole)
func (s *Scorer) Score(ctx context.Context, resumeID uuid.UUID, resumeText, jobRole string) (*types.ATSResult, error) {
	result, err := s.Analyze(ctx, resumeText, jobRole)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.UpsertATSScore(ctx, resumeID, strings.TrimSpace(jobRole), result); err != nil {
		return nil, apperr.Failed(failureMessage, err)
	}

	log.Info().
		Str("resume_id", resumeID.String()).
		Str("job_role", jobRole).
		Int("overall_score", result.OverallScore.Int()).
		Msg("ATS analysis stored")
	return result, nil
}
