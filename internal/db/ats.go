package db

import (
	"context"
	"fmt"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
)

// UpsertATSScore stores the analysis for (resume, job role). A second call for the same
// pair overwrites the first.
func (db *DB) UpsertATSScore(ctx context.Context, resumeID uuid.UUID, jobRole string, r *types.ATSResult) (*ATSScore, error) {
	r.Clamp()
	cols := make([][]byte, 0, 7)
	for _, v := range []any{
		r.SectionScores, r.MissingKeywords, r.Strengths, r.Weaknesses,
		r.FormattingIssues, r.ImprovementSuggestions, r.OptimizedBullets,
	} {
		data, err := marshalJSON(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal ATS result: %w", err)
		}
		cols = append(cols, data)
	}

	score := &ATSScore{ResumeID: resumeID, JobRole: jobRole, Result: *r}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO ats_scores
			(resume_id, job_role, overall_score, keyword_match_percentage, section_scores,
			 missing_keywords, strengths, weaknesses, formatting_issues, recruiter_review,
			 improvement_suggestions, optimized_bullets)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (resume_id, job_role) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			keyword_match_percentage = EXCLUDED.keyword_match_percentage,
			section_scores = EXCLUDED.section_scores,
			missing_keywords = EXCLUDED.missing_keywords,
			strengths = EXCLUDED.strengths,
			weaknesses = EXCLUDED.weaknesses,
			formatting_issues = EXCLUDED.formatting_issues,
			recruiter_review = EXCLUDED.recruiter_review,
			improvement_suggestions = EXCLUDED.improvement_suggestions,
			optimized_bullets = EXCLUDED.optimized_bullets,
			updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		resumeID, jobRole, r.OverallScore.Int(), r.KeywordMatchPercentage.Int(), cols[0],
		cols[1], cols[2], cols[3], cols[4], r.RecruiterReview,
		cols[5], cols[6],
	).Scan(&score.ID, &score.CreatedAt, &score.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert ATS score: %w", err)
	}
	return score, nil
}

// GetATSScore retrieves the analysis for (resume, job role). Returns nil, nil if absent.
func (db *DB) GetATSScore(ctx context.Context, resumeID uuid.UUID, jobRole string) (*ATSScore, error) {
	s := &ATSScore{ResumeID: resumeID, JobRole: jobRole}
	var overall, keyword int
	var sections, missing, strengths, weaknesses, formatting, suggestions, bullets []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, overall_score, keyword_match_percentage, section_scores, missing_keywords,
			strengths, weaknesses, formatting_issues, recruiter_review, improvement_suggestions,
			optimized_bullets, created_at, updated_at
		 FROM ats_scores WHERE resume_id = $1 AND job_role = $2`,
		resumeID, jobRole,
	).Scan(&s.ID, &overall, &keyword, &sections, &missing,
		&strengths, &weaknesses, &formatting, &s.Result.RecruiterReview, &suggestions,
		&bullets, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ATS score: %w", err)
	}

	s.Result.OverallScore = types.Score(overall)
	s.Result.KeywordMatchPercentage = types.Score(keyword)
	for _, col := range []struct {
		data []byte
		dest any
	}{
		{sections, &s.Result.SectionScores},
		{missing, &s.Result.MissingKeywords},
		{strengths, &s.Result.Strengths},
		{weaknesses, &s.Result.Weaknesses},
		{formatting, &s.Result.FormattingIssues},
		{suggestions, &s.Result.ImprovementSuggestions},
		{bullets, &s.Result.OptimizedBullets},
	} {
		if err := unmarshalJSON(col.data, col.dest); err != nil {
			return nil, fmt.Errorf("failed to decode ATS score: %w", err)
		}
	}
	s.Result.Clamp()
	return s, nil
}

// CountATSScores returns the number of rows for (resume, job role)
func (db *DB) CountATSScores(ctx context.Context, resumeID uuid.UUID, jobRole string) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ats_scores WHERE resume_id = $1 AND job_role = $2`, resumeID, jobRole,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ATS scores: %w", err)
	}
	return n, nil
}
