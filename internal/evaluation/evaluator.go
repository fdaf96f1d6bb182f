// Package evaluation scores a finished interview from its transcript and persists the result.
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/llm"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/prompts"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/voice"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxTranscriptChars bounds the transcript sent to the model.
const maxTranscriptChars = 60000

// Store is the persistence the evaluator needs
type Store interface {
	GetInterview(ctx context.Context, id uuid.UUID) (*db.Interview, error)
	TransitionInterview(ctx context.Context, id uuid.UUID, from []string, to string) (*db.Interview, error)
	LatestCallID(ctx context.Context, interviewID uuid.UUID) (string, error)
	GetResumeHighlights(ctx context.Context, resumeID uuid.UUID) (*types.ResumeHighlights, error)
	SaveEvaluation(ctx context.Context, in db.EvaluationInput) (*db.Evaluation, error)
}

// Request asks for an interview to be evaluated on behalf of UserID
type Request struct {
	InterviewID uuid.UUID
	UserID      uuid.UUID
	Transcript  string
}

// Response is the stored evaluation plus how it was produced
type Response struct {
	Evaluation *db.Evaluation         `json:"evaluation"`
	Quality    Quality                `json:"quality"`
	Source     TranscriptSource       `json:"transcript_source"`
	Fallback   bool                   `json:"fallback"`
	Sections   types.FeedbackSections `json:"feedback_sections"`
}

// Evaluator scores interviews
type Evaluator struct {
	client llm.Client
	store  Store
	calls  voice.CallFetcher
}

// NewEvaluator creates an Evaluator. calls may be nil, in which case the client
// transcript is always used.
func NewEvaluator(client llm.Client, store Store, calls voice.CallFetcher) *Evaluator {
	return &Evaluator{client: client, store: store, calls: calls}
}

// Evaluate scores the interview and upserts its evaluation. An interview still in
// progress is completed first. A model response that cannot be parsed yields the
// default low-information evaluation instead of an error.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (*Response, error) {
	interview, err := e.ready(ctx, req)
	if err != nil {
		return nil, err
	}

	transcript, source := e.transcript(ctx, interview.ID, req.Transcript)
	quality := MeasureQuality(transcript)

	result, fallback, err := e.score(ctx, interview, transcript, quality)
	if err != nil {
		return nil, err
	}

	sections := Sections(result)
	in := db.EvaluationInput{
		InterviewID:        interview.ID,
		CommunicationScore: subScore(result.Communication.Score),
		TechnicalScore:     subScore(result.TechnicalAccuracy.Score),
		ConfidenceScore:    subScore(result.Confidence.Score),
		RelevanceScore:     subScore(result.Relevance.Score),
		OverallScore:       result.OverallScore.Clamp(0, 100).Int(),
		Feedback:           RenderFeedback(sections),
		FeedbackSections:   sections,
		Transcript:         transcript,
		ResponseAnalysis:   result.ResponseAnalysis,
		Suggestions:        suggestions(result.Improvements),
	}
	ev, err := e.store.SaveEvaluation(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}

	log.Info().
		Str("interview_id", interview.ID.String()).
		Str("transcript_source", string(source)).
		Int("candidate_turns", quality.CandidateTurns).
		Int("overall_score", ev.OverallScore).
		Bool("fallback", fallback).
		Msg("interview evaluated")

	return &Response{Evaluation: ev, Quality: quality, Source: source, Fallback: fallback, Sections: sections}, nil
}

// ready loads the interview, checks ownership and completes it if it is still running.
func (e *Evaluator) ready(ctx context.Context, req Request) (*db.Interview, error) {
	interview, err := e.store.GetInterview(ctx, req.InterviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if interview == nil {
		return nil, &apperr.NotFoundError{Resource: "interview", ID: req.InterviewID.String()}
	}
	if interview.UserID != req.UserID {
		return nil, &apperr.UnauthorizedError{Reason: "interview belongs to another user"}
	}

	switch interview.Status {
	case types.InterviewCompleted:
		return interview, nil
	case types.InterviewInProgress:
		updated, err := e.store.TransitionInterview(ctx, interview.ID,
			[]string{types.InterviewInProgress}, types.InterviewCompleted)
		if err != nil {
			return nil, fmt.Errorf("failed to complete interview: %w", err)
		}
		if updated != nil {
			return updated, nil
		}
		// Lost a race with another completion; accept it if the row ended up completed.
		current, err := e.store.GetInterview(ctx, interview.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get interview: %w", err)
		}
		if current != nil && current.Status == types.InterviewCompleted {
			return current, nil
		}
		return nil, &apperr.ConflictError{Message: "interview can no longer be evaluated"}
	default:
		return nil, &apperr.InputError{Field: "interviewId", Message: "interview has not been completed"}
	}
}

// transcript reconciles the client transcript with the voice platform's record.
// Platform failures are logged and the client transcript stands.
func (e *Evaluator) transcript(ctx context.Context, interviewID uuid.UUID, client string) (string, TranscriptSource) {
	if e.calls == nil {
		return strings.TrimSpace(client), SourceClient
	}
	callID, err := e.store.LatestCallID(ctx, interviewID)
	if err != nil {
		log.Warn().Err(err).Str("interview_id", interviewID.String()).Msg("failed to look up call id")
		return strings.TrimSpace(client), SourceClient
	}
	if callID == "" {
		return strings.TrimSpace(client), SourceClient
	}
	call, err := e.calls.GetCall(ctx, callID)
	if err != nil {
		log.Warn().Err(err).Str("call_id", callID).Msg("failed to fetch call transcript")
		return strings.TrimSpace(client), SourceClient
	}
	return Reconcile(client, call)
}

func (e *Evaluator) score(ctx context.Context, interview *db.Interview, transcript string, q Quality) (*types.EvaluationResult, bool, error) {
	system, user, err := e.prompt(ctx, interview, transcript, q)
	if err != nil {
		return nil, false, err
	}

	resp, err := e.client.GenerateContent(ctx, system, user, llm.TierAdvanced)
	if err != nil {
		return nil, false, err
	}

	var result types.EvaluationResult
	if err := llm.DecodeJSONObject(resp, &result); err != nil {
		log.Warn().Err(err).Str("interview_id", interview.ID.String()).Msg("using default evaluation")
		return DefaultResult(), true, nil
	}
	normalize(&result)
	return &result, false, nil
}

func (e *Evaluator) prompt(ctx context.Context, interview *db.Interview, transcript string, q Quality) (string, string, error) {
	system, err := prompts.Get("evaluation.json", "evaluate-system")
	if err != nil {
		return "", "", fmt.Errorf("failed to load prompt: %w", err)
	}

	warning := ""
	if q.LowParticipation() {
		warning, err = prompts.Render("evaluation.json", "low-participation-warning", map[string]string{
			"CandidateTurns": strconv.Itoa(q.CandidateTurns),
		})
		if err != nil {
			return "", "", fmt.Errorf("failed to render prompt: %w", err)
		}
	}

	profile := ""
	if interview.Mode == types.ModeResumeJD && interview.ResumeID != nil {
		h, err := e.store.GetResumeHighlights(ctx, *interview.ResumeID)
		if err != nil {
			log.Warn().Err(err).Str("resume_id", interview.ResumeID.String()).Msg("failed to load highlights")
		} else if !h.IsEmpty() {
			data, _ := json.Marshal(h)
			profile, err = prompts.Render("evaluation.json", "profile-section", map[string]string{"Profile": string(data)})
			if err != nil {
				return "", "", fmt.Errorf("failed to render prompt: %w", err)
			}
		}
	}

	if transcript == "" {
		transcript = "(no transcript was captured)"
	}
	transcript = llm.TruncateBytes(transcript, maxTranscriptChars)

	user, err := prompts.Render("evaluation.json", "evaluate-user", map[string]string{
		"Mode":           interview.Mode,
		"Duration":       strconv.Itoa(interview.Duration),
		"Words":          strconv.Itoa(q.Words),
		"Lines":          strconv.Itoa(q.Lines),
		"CandidateTurns": strconv.Itoa(q.CandidateTurns),
		"Warning":        warning,
		"Profile":        profile,
		"Transcript":     transcript,
	})
	if err != nil {
		return "", "", err
	}
	return system, user, nil
}

// normalize bounds every score and fills defaults for empty fields.
func normalize(r *types.EvaluationResult) {
	for _, d := range []*types.ScoreDetail{&r.Communication, &r.TechnicalAccuracy, &r.Confidence, &r.Relevance} {
		d.Score = d.Score.Clamp(0, 10)
		d.Feedback = strings.TrimSpace(d.Feedback)
	}
	r.OverallScore = Score100(r.OverallScore)
	if strings.TrimSpace(r.Verdict) == "" {
		r.Verdict = "No verdict was returned for this interview."
	}
	if r.CriticalWeaknesses == nil {
		r.CriticalWeaknesses = []string{}
	}
	if r.ResponseAnalysis == nil {
		r.ResponseAnalysis = []types.ResponseAnalysis{}
	}
	for i := range r.ResponseAnalysis {
		r.ResponseAnalysis[i].Score = r.ResponseAnalysis[i].Score.Clamp(0, 10)
	}
}

// Score100 rounds and bounds an overall score to 0-100.
func Score100(s types.Score) types.Score {
	return types.Score(s.Clamp(0, 100).Int())
}

// subScore converts a 0-10 rubric score to the stored 0-100 scale.
func subScore(s types.Score) int {
	return types.Score(float64(s.Clamp(0, 10)) * 10).Int()
}

// suggestions orders improvements by priority, most urgent first.
func suggestions(in []types.Improvement) []db.ImprovementSuggestion {
	out := make([]db.ImprovementSuggestion, 0, len(in))
	for _, imp := range in {
		text := strings.TrimSpace(imp.Suggestion)
		if text == "" {
			continue
		}
		category := strings.TrimSpace(imp.Category)
		if category == "" {
			category = "general"
		}
		priority := int(imp.Priority)
		if priority < 1 {
			priority = 3
		}
		out = append(out, db.ImprovementSuggestion{Suggestion: text, Category: category, Priority: priority})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}
