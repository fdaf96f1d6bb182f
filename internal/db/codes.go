package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateCode is returned when a signup code already exists.
var ErrDuplicateCode = errors.New("university code already exists")

const codeColumns = `id, university_id, code, max_uses, current_uses, is_active, expires_at, created_at`

func scanCode(row pgx.Row) (*UniversityCode, error) {
	var c UniversityCode
	if err := row.Scan(&c.ID, &c.UniversityID, &c.Code, &c.MaxUses, &c.CurrentUses, &c.IsActive, &c.ExpiresAt, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateUniversityCode creates a signup code for a university
func (db *DB) CreateUniversityCode(ctx context.Context, universityID uuid.UUID, code string, maxUses *int, expiresAt *time.Time) (*UniversityCode, error) {
	c, err := scanCode(db.pool.QueryRow(ctx,
		`INSERT INTO university_codes (university_id, code, max_uses, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+codeColumns,
		universityID, code, maxUses, expiresAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("failed to create university code: %w", err)
	}
	return c, nil
}

// ListUniversityCodes lists a university's signup codes, newest first
func (db *DB) ListUniversityCodes(ctx context.Context, universityID uuid.UUID) ([]UniversityCode, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+codeColumns+` FROM university_codes
		 WHERE university_id = $1 ORDER BY created_at DESC`,
		universityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list university codes: %w", err)
	}
	defer rows.Close()

	codes := []UniversityCode{}
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan university code: %w", err)
		}
		codes = append(codes, *c)
	}
	return codes, rows.Err()
}

// DeactivateUniversityCode turns off a code owned by the university.
// Returns nil, nil when no such code exists for that university.
func (db *DB) DeactivateUniversityCode(ctx context.Context, universityID, codeID uuid.UUID) (*UniversityCode, error) {
	c, err := scanCode(db.pool.QueryRow(ctx,
		`UPDATE university_codes SET is_active = FALSE
		 WHERE id = $1 AND university_id = $2
		 RETURNING `+codeColumns,
		codeID, universityID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to deactivate university code: %w", err)
	}
	return c, nil
}
