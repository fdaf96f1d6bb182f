package db

import (
	"context"
	"fmt"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
)

// EvaluationInput is what the evaluator persists for an interview
type EvaluationInput struct {
	InterviewID        uuid.UUID
	CommunicationScore int
	TechnicalScore     int
	ConfidenceScore    int
	RelevanceScore     int
	OverallScore       int
	Feedback           string
	FeedbackSections   types.FeedbackSections
	Transcript         string
	ResponseAnalysis   []types.ResponseAnalysis
	Suggestions        []ImprovementSuggestion
}

// SaveEvaluation upserts the interview's evaluation and replaces its suggestions
func (db *DB) SaveEvaluation(ctx context.Context, in EvaluationInput) (*Evaluation, error) {
	sections, err := marshalJSON(in.FeedbackSections)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feedback sections: %w", err)
	}
	analysis, err := marshalJSON(in.ResponseAnalysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response analysis: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ev := &Evaluation{
		InterviewID:        in.InterviewID,
		CommunicationScore: in.CommunicationScore,
		TechnicalScore:     in.TechnicalScore,
		ConfidenceScore:    in.ConfidenceScore,
		RelevanceScore:     in.RelevanceScore,
		OverallScore:       in.OverallScore,
		Feedback:           in.Feedback,
		FeedbackSections:   in.FeedbackSections,
		Transcript:         in.Transcript,
		ResponseAnalysis:   in.ResponseAnalysis,
	}
	var transcript *string
	if in.Transcript != "" {
		transcript = &in.Transcript
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO evaluations
			(interview_id, communication_score, technical_score, confidence_score, relevance_score,
			 overall_score, feedback, feedback_sections, transcript, response_analysis)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (interview_id) DO UPDATE SET
			communication_score = EXCLUDED.communication_score,
			technical_score = EXCLUDED.technical_score,
			confidence_score = EXCLUDED.confidence_score,
			relevance_score = EXCLUDED.relevance_score,
			overall_score = EXCLUDED.overall_score,
			feedback = EXCLUDED.feedback,
			feedback_sections = EXCLUDED.feedback_sections,
			transcript = EXCLUDED.transcript,
			response_analysis = EXCLUDED.response_analysis,
			updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		in.InterviewID, in.CommunicationScore, in.TechnicalScore, in.ConfidenceScore, in.RelevanceScore,
		in.OverallScore, in.Feedback, sections, transcript, analysis,
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert evaluation: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM improvement_suggestions WHERE evaluation_id = $1`, ev.ID); err != nil {
		return nil, fmt.Errorf("failed to clear improvement suggestions: %w", err)
	}
	ev.Suggestions = make([]ImprovementSuggestion, 0, len(in.Suggestions))
	for _, s := range in.Suggestions {
		s.EvaluationID = ev.ID
		if err := tx.QueryRow(ctx,
			`INSERT INTO improvement_suggestions (evaluation_id, suggestion, category, priority)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			ev.ID, s.Suggestion, s.Category, s.Priority,
		).Scan(&s.ID); err != nil {
			return nil, fmt.Errorf("failed to insert improvement suggestion: %w", err)
		}
		ev.Suggestions = append(ev.Suggestions, s)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit evaluation: %w", err)
	}
	return ev, nil
}

// GetEvaluation retrieves an interview's evaluation with suggestions ordered by priority.
// Returns nil, nil if the interview has not been evaluated.
func (db *DB) GetEvaluation(ctx context.Context, interviewID uuid.UUID) (*Evaluation, error) {
	ev := &Evaluation{InterviewID: interviewID}
	var sections, analysis []byte
	var transcript *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, communication_score, technical_score, confidence_score, relevance_score,
			overall_score, feedback, feedback_sections, transcript, response_analysis,
			created_at, updated_at
		 FROM evaluations WHERE interview_id = $1`,
		interviewID,
	).Scan(&ev.ID, &ev.CommunicationScore, &ev.TechnicalScore, &ev.ConfidenceScore, &ev.RelevanceScore,
		&ev.OverallScore, &ev.Feedback, &sections, &transcript, &analysis,
		&ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	if transcript != nil {
		ev.Transcript = *transcript
	}
	if err := unmarshalJSON(sections, &ev.FeedbackSections); err != nil {
		return nil, fmt.Errorf("failed to decode feedback sections: %w", err)
	}
	if err := unmarshalJSON(analysis, &ev.ResponseAnalysis); err != nil {
		return nil, fmt.Errorf("failed to decode response analysis: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, suggestion, category, priority FROM improvement_suggestions
		 WHERE evaluation_id = $1 ORDER BY priority ASC, created_at ASC`,
		ev.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list improvement suggestions: %w", err)
	}
	defer rows.Close()

	ev.Suggestions = []ImprovementSuggestion{}
	for rows.Next() {
		s := ImprovementSuggestion{EvaluationID: ev.ID}
		if err := rows.Scan(&s.ID, &s.Suggestion, &s.Category, &s.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan improvement suggestion: %w", err)
		}
		ev.Suggestions = append(ev.Suggestions, s)
	}
	return ev, rows.Err()
}
