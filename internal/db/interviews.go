package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const interviewColumns = `id, user_id, resume_id, duration, mode, status, started_at, ended_at, created_at`

func scanInterview(row pgx.Row) (*Interview, error) {
	var i Interview
	if err := row.Scan(&i.ID, &i.UserID, &i.ResumeID, &i.Duration, &i.Mode, &i.Status, &i.StartedAt, &i.EndedAt, &i.CreatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

// CreateInterview schedules a new interview
func (db *DB) CreateInterview(ctx context.Context, userID uuid.UUID, resumeID *uuid.UUID, duration int, mode string) (*Interview, error) {
	i, err := scanInterview(db.pool.QueryRow(ctx,
		`INSERT INTO interviews (user_id, resume_id, duration, mode)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+interviewColumns,
		userID, resumeID, duration, mode,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}
	return i, nil
}

// GetInterview retrieves an interview by ID. Returns nil, nil if not found.
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*Interview, error) {
	i, err := scanInterview(db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return i, nil
}

// ListInterviews lists a user's interviews, newest first
func (db *DB) ListInterviews(ctx context.Context, userID uuid.UUID) ([]Interview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	interviews := []Interview{}
	for rows.Next() {
		i, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, *i)
	}
	return interviews, rows.Err()
}

// TransitionInterview moves an interview to status `to` only if its current status is one
// of `from`. started_at is stamped on entering in_progress and ended_at on entering a
// terminal status. Returns nil, nil when the guard did not match.
func (db *DB) TransitionInterview(ctx context.Context, id uuid.UUID, from []string, to string) (*Interview, error) {
	i, err := scanInterview(db.pool.QueryRow(ctx,
		`UPDATE interviews SET
			status = $3,
			started_at = CASE WHEN $3 = 'in_progress' THEN NOW() ELSE started_at END,
			ended_at = CASE WHEN $3 IN ('completed', 'cancelled') THEN NOW() ELSE ended_at END
		 WHERE id = $1 AND status = ANY($2)
		 RETURNING `+interviewColumns,
		id, from, to,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to transition interview: %w", err)
	}
	return i, nil
}

// CreateInterviewSession records the voice platform's call id for an interview
func (db *DB) CreateInterviewSession(ctx context.Context, interviewID uuid.UUID, callID string) (*InterviewSession, error) {
	s := InterviewSession{InterviewID: interviewID, VapiCallID: callID}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO interview_sessions (interview_id, vapi_call_id) VALUES ($1, $2)
		 RETURNING id, created_at`,
		interviewID, callID,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create interview session: %w", err)
	}
	return &s, nil
}

// LatestCallID returns the most recent session's call id, or "" if none was recorded.
func (db *DB) LatestCallID(ctx context.Context, interviewID uuid.UUID) (string, error) {
	var callID string
	err := db.pool.QueryRow(ctx,
		`SELECT vapi_call_id FROM interview_sessions
		 WHERE interview_id = $1 ORDER BY created_at DESC LIMIT 1`,
		interviewID,
	).Scan(&callID)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get latest call id: %w", err)
	}
	return callID, nil
}
