package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ListCohort returns the students who signed up with one of the university's codes
func (db *DB) ListCohort(ctx context.Context, universityID uuid.UUID) ([]CohortStudent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT p.id, p.name, p.email, c.code, p.created_at,
			COUNT(DISTINCT i.id) AS interview_count,
			COUNT(DISTINCT i.id) FILTER (WHERE i.status = 'completed') AS completed_count,
			(SELECT e2.overall_score FROM evaluations e2
			   JOIN interviews i2 ON i2.id = e2.interview_id
			  WHERE i2.user_id = p.id ORDER BY e2.created_at DESC LIMIT 1) AS latest_score,
			AVG(e.overall_score)::float8 AS avg_score,
			(SELECT MAX(a.overall_score) FROM ats_scores a
			   JOIN resumes r ON r.id = a.resume_id
			  WHERE r.user_id = p.id) AS best_ats,
			MAX(i.created_at) AS last_interview_at
		 FROM profiles p
		 JOIN university_codes c ON c.id = p.university_code_id
		 LEFT JOIN interviews i ON i.user_id = p.id
		 LEFT JOIN evaluations e ON e.interview_id = i.id
		 WHERE c.university_id = $1
		 GROUP BY p.id, p.name, p.email, c.code, p.created_at
		 ORDER BY p.name`,
		universityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cohort: %w", err)
	}
	defer rows.Close()

	cohort := []CohortStudent{}
	for rows.Next() {
		var s CohortStudent
		if err := rows.Scan(&s.UserID, &s.Name, &s.Email, &s.Code, &s.JoinedAt,
			&s.InterviewCount, &s.CompletedInterviews, &s.LatestOverallScore,
			&s.AverageOverallScore, &s.BestATSScore, &s.LastInterviewAt); err != nil {
			return nil, fmt.Errorf("failed to scan cohort student: %w", err)
		}
		cohort = append(cohort, s)
	}
	return cohort, rows.Err()
}

// GetAnalytics aggregates interview and evaluation activity for a university's students
func (db *DB) GetAnalytics(ctx context.Context, universityID uuid.UUID) (*Analytics, error) {
	var a Analytics
	err := db.pool.QueryRow(ctx,
		`WITH students AS (
			SELECT p.id FROM profiles p
			JOIN university_codes c ON c.id = p.university_code_id
			WHERE c.university_id = $1
		)
		SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM interviews WHERE user_id IN (SELECT id FROM students)),
			(SELECT COUNT(*) FROM interviews WHERE user_id IN (SELECT id FROM students) AND status = 'completed'),
			COUNT(e.id),
			COALESCE(AVG(e.communication_score), 0)::float8,
			COALESCE(AVG(e.technical_score), 0)::float8,
			COALESCE(AVG(e.confidence_score), 0)::float8,
			COALESCE(AVG(e.overall_score), 0)::float8,
			(SELECT COALESCE(AVG(a.overall_score), 0)::float8 FROM ats_scores a
			   JOIN resumes r ON r.id = a.resume_id
			  WHERE r.user_id IN (SELECT id FROM students))
		FROM evaluations e
		JOIN interviews i ON i.id = e.interview_id
		WHERE i.user_id IN (SELECT id FROM students)`,
		universityID,
	).Scan(&a.TotalStudents, &a.TotalInterviews, &a.CompletedInterviews, &a.TotalEvaluations,
		&a.AvgCommunication, &a.AvgTechnical, &a.AvgConfidence, &a.AvgOverall, &a.AvgATSScore)
	if err != nil {
		return nil, fmt.Errorf("failed to get analytics: %w", err)
	}
	return &a, nil
}
