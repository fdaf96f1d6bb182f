// Package interviews manages the mock interview lifecycle: scheduling, starting the voice
// agent, recording the platform call and the one-way move to a terminal status.
package interviews

import (
	"context"
	"fmt"
	"slices"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/questions"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Durations lists the interview lengths, in minutes, a student may schedule.
var Durations = []int{5, 10, 15, 30}

// Modes lists the supported interview modes.
var Modes = []string{types.ModeResumeJD, types.ModeTechnical, types.ModeHR}

// Store is the persistence the lifecycle needs
type Store interface {
	CreateInterview(ctx context.Context, userID uuid.UUID, resumeID *uuid.UUID, duration int, mode string) (*db.Interview, error)
	GetInterview(ctx context.Context, id uuid.UUID) (*db.Interview, error)
	ListInterviews(ctx context.Context, userID uuid.UUID) ([]db.Interview, error)
	TransitionInterview(ctx context.Context, id uuid.UUID, from []string, to string) (*db.Interview, error)
	CreateInterviewSession(ctx context.Context, interviewID uuid.UUID, callID string) (*db.InterviewSession, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.Resume, error)
	GetResumeHighlights(ctx context.Context, resumeID uuid.UUID) (*types.ResumeHighlights, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*db.Profile, error)
	GetEvaluation(ctx context.Context, interviewID uuid.UUID) (*db.Evaluation, error)
}

// CreateRequest schedules an interview
type CreateRequest struct {
	Duration int        `json:"duration"`
	Mode     string     `json:"mode"`
	ResumeID *uuid.UUID `json:"resumeId,omitempty"`
}

// InvalidTransitionError is returned when an interview is not in a status the requested
// transition may leave from.
type InvalidTransitionError struct {
	InterviewID uuid.UUID
	From        string
	To          string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("interview %s cannot move from %s to %s", e.InterviewID, e.From, e.To)
}

// Unwrap exposes the error as a conflict for status mapping.
func (e *InvalidTransitionError) Unwrap() error {
	return &apperr.ConflictError{Message: e.Error()}
}

// transitions lists the statuses each target may be entered from.
var transitions = map[string][]string{
	types.InterviewInProgress: {types.InterviewScheduled},
	types.InterviewCompleted:  {types.InterviewScheduled, types.InterviewInProgress},
	types.InterviewCancelled:  {types.InterviewScheduled, types.InterviewInProgress},
}

// Service runs the interview lifecycle for the calling user
type Service struct {
	store   Store
	builder *questions.Builder
}

// NewService creates a Service
func NewService(store Store, builder *questions.Builder) *Service {
	return &Service{store: store, builder: builder}
}

// Create schedules an interview. A referenced resume must belong to the caller.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*db.Interview, error) {
	if !slices.Contains(Durations, req.Duration) {
		return nil, &apperr.InputError{Field: "duration", Message: "must be one of 5, 10, 15 or 30 minutes"}
	}
	mode := req.Mode
	if mode == "" {
		mode = types.ModeResumeJD
	}
	if !slices.Contains(Modes, mode) {
		return nil, &apperr.InputError{Field: "mode", Message: "must be one of resume_jd, technical or hr"}
	}
	if req.ResumeID != nil {
		resume, err := s.store.GetResume(ctx, *req.ResumeID)
		if err != nil {
			return nil, err
		}
		if resume == nil {
			return nil, &apperr.NotFoundError{Resource: "resume", ID: req.ResumeID.String()}
		}
		if resume.UserID != userID {
			return nil, &apperr.UnauthorizedError{Reason: "resume belongs to another user"}
		}
	}

	interview, err := s.store.CreateInterview(ctx, userID, req.ResumeID, req.Duration, mode)
	if err != nil {
		return nil, err
	}
	log.Info().Str("interview_id", interview.ID.String()).Str("mode", mode).Int("duration", req.Duration).Msg("interview scheduled")
	return interview, nil
}

// List returns the caller's interviews, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]db.Interview, error) {
	return s.store.ListInterviews(ctx, userID)
}

// Get returns one of the caller's interviews
func (s *Service) Get(ctx context.Context, userID, interviewID uuid.UUID) (*db.Interview, error) {
	interview, err := s.store.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if interview == nil {
		return nil, &apperr.NotFoundError{Resource: "interview", ID: interviewID.String()}
	}
	if interview.UserID != userID {
		return nil, &apperr.UnauthorizedError{Reason: "interview belongs to another user"}
	}
	return interview, nil
}

// Start moves a scheduled interview to in_progress and returns the voice agent's
// configuration. Resume highlights are used only for resume_jd interviews.
func (s *Service) Start(ctx context.Context, userID, interviewID uuid.UUID) (*questions.AgentConfig, error) {
	interview, err := s.Get(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}

	in := questions.PromptInput{Mode: interview.Mode, Duration: interview.Duration}
	if profile, err := s.store.GetProfile(ctx, userID); err != nil {
		return nil, err
	} else if profile != nil {
		in.CandidateName = profile.Name
	}
	if interview.Mode == types.ModeResumeJD && interview.ResumeID != nil {
		h, err := s.store.GetResumeHighlights(ctx, *interview.ResumeID)
		if err != nil {
			return nil, err
		}
		in.Highlights = h
	}

	agent, err := s.builder.SystemPrompt(in)
	if err != nil {
		return nil, fmt.Errorf("failed to build agent configuration: %w", err)
	}

	if _, err := s.transition(ctx, interview, types.InterviewInProgress); err != nil {
		return nil, err
	}
	return agent, nil
}

// RecordSession stores the voice platform's call id for a running interview
func (s *Service) RecordSession(ctx context.Context, userID, interviewID uuid.UUID, callID string) (*db.InterviewSession, error) {
	if callID == "" {
		return nil, &apperr.InputError{Field: "callId", Message: "is required"}
	}
	if _, err := s.Get(ctx, userID, interviewID); err != nil {
		return nil, err
	}
	return s.store.CreateInterviewSession(ctx, interviewID, callID)
}

// Complete ends an interview normally
func (s *Service) Complete(ctx context.Context, userID, interviewID uuid.UUID) (*db.Interview, error) {
	interview, err := s.Get(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, interview, types.InterviewCompleted)
}

// Cancel abandons an interview
func (s *Service) Cancel(ctx context.Context, userID, interviewID uuid.UUID) (*db.Interview, error) {
	interview, err := s.Get(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, interview, types.InterviewCancelled)
}

// Evaluation returns the stored evaluation of one of the caller's interviews
func (s *Service) Evaluation(ctx context.Context, userID, interviewID uuid.UUID) (*db.Evaluation, error) {
	if _, err := s.Get(ctx, userID, interviewID); err != nil {
		return nil, err
	}
	ev, err := s.store.GetEvaluation(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, &apperr.NotFoundError{Resource: "evaluation", ID: interviewID.String()}
	}
	return ev, nil
}

func (s *Service) transition(ctx context.Context, interview *db.Interview, to string) (*db.Interview, error) {
	from := transitions[to]
	if !slices.Contains(from, interview.Status) {
		return nil, &InvalidTransitionError{InterviewID: interview.ID, From: interview.Status, To: to}
	}
	updated, err := s.store.TransitionInterview(ctx, interview.ID, from, to)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Another request moved it first.
		return nil, &InvalidTransitionError{InterviewID: interview.ID, From: interview.Status, To: to}
	}
	log.Info().Str("interview_id", interview.ID.String()).Str("from", interview.Status).Str("status", to).Msg("interview transitioned")
	return updated, nil
}
