package db

import (
	"context"
	"fmt"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resumeColumns = `id, user_id, file_ref, file_name, mime_type, extracted_text, uploaded_at, parsed_at`

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	if err := row.Scan(&r.ID, &r.UserID, &r.FileRef, &r.FileName, &r.MIMEType, &r.ExtractedText, &r.UploadedAt, &r.ParsedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateResume records an uploaded resume file
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, fileRef, fileName, mimeType string) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, file_ref, file_name, mime_type)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+resumeColumns,
		userID, fileRef, fileName, mimeType,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r, nil
}

// GetResume retrieves a resume by ID. Returns nil, nil if not found.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumes lists a user's resumes, newest first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY uploaded_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	return resumes, rows.Err()
}

// UpsertResumeHighlights stores the structured highlights for a resume, replacing any
// previous parse, and stamps the resume's parsed_at and extracted_text. It is a single
// statement so concurrent re-parses leave exactly one highlights row.
func (db *DB) UpsertResumeHighlights(ctx context.Context, resumeID uuid.UUID, h *types.ResumeHighlights, extractedText string) error {
	h.Normalize()
	skills, err := marshalJSON(h.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	tools, err := marshalJSON(h.Tools)
	if err != nil {
		return fmt.Errorf("failed to marshal tools: %w", err)
	}
	projects, err := marshalJSON(h.Projects)
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}
	experience, err := marshalJSON(h.Experience)
	if err != nil {
		return fmt.Errorf("failed to marshal experience: %w", err)
	}
	education, err := marshalJSON(h.Education)
	if err != nil {
		return fmt.Errorf("failed to marshal education: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`WITH upserted AS (
			INSERT INTO resume_highlights
				(resume_id, name, email, phone, summary, skills, tools, projects, experience, education)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (resume_id) DO UPDATE SET
				name = EXCLUDED.name,
				email = EXCLUDED.email,
				phone = EXCLUDED.phone,
				summary = EXCLUDED.summary,
				skills = EXCLUDED.skills,
				tools = EXCLUDED.tools,
				projects = EXCLUDED.projects,
				experience = EXCLUDED.experience,
				education = EXCLUDED.education,
				updated_at = NOW()
			RETURNING resume_id
		)
		UPDATE resumes SET parsed_at = NOW(), extracted_text = $11
		WHERE id = (SELECT resume_id FROM upserted)`,
		resumeID, h.Name, h.Email, h.Phone, h.Summary,
		skills, tools, projects, experience, education, extractedText,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert resume highlights: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}

// GetResumeHighlights retrieves the highlights for a resume. Returns nil, nil if not parsed.
func (db *DB) GetResumeHighlights(ctx context.Context, resumeID uuid.UUID) (*types.ResumeHighlights, error) {
	var h types.ResumeHighlights
	var skills, tools, projects, experience, education []byte
	err := db.pool.QueryRow(ctx,
		`SELECT name, email, phone, summary, skills, tools, projects, experience, education
		 FROM resume_highlights WHERE resume_id = $1`,
		resumeID,
	).Scan(&h.Name, &h.Email, &h.Phone, &h.Summary, &skills, &tools, &projects, &experience, &education)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume highlights: %w", err)
	}

	for _, col := range []struct {
		data []byte
		dest any
	}{
		{skills, &h.Skills},
		{tools, &h.Tools},
		{projects, &h.Projects},
		{experience, &h.Experience},
		{education, &h.Education},
	} {
		if err := unmarshalJSON(col.data, col.dest); err != nil {
			return nil, fmt.Errorf("failed to decode resume highlights: %w", err)
		}
	}
	h.Normalize()
	return &h, nil
}

// CountResumeHighlights returns the number of highlights rows for a resume
func (db *DB) CountResumeHighlights(ctx context.Context, resumeID uuid.UUID) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM resume_highlights WHERE resume_id = $1`, resumeID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count resume highlights: %w", err)
	}
	return n, nil
}
