package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrCodeUnavailable is returned when a signup code is unknown, inactive, expired or used up.
var ErrCodeUnavailable = errors.New("university code is invalid, expired or fully used")

// ProfileInput carries the fields needed to create a student account
type ProfileInput struct {
	Name           string
	Email          string
	PasswordHash   string
	UniversityCode string
}

const profileColumns = `id, name, email, password_hash, university_code_id, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.UniversityCodeID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CheckEmailExists reports whether a profile already uses the email (case-insensitive)
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE lower(email) = lower($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// CreateProfile creates a student profile and its role grant in one transaction.
// When a university code is given it is claimed with a single conditional update;
// ErrCodeUnavailable is returned if the claim matches no row.
func (db *DB) CreateProfile(ctx context.Context, in ProfileInput) (*Profile, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var codeID, universityID *uuid.UUID
	if code := strings.TrimSpace(in.UniversityCode); code != "" {
		var cid, uid uuid.UUID
		err := tx.QueryRow(ctx,
			`UPDATE university_codes
			 SET current_uses = current_uses + 1
			 WHERE code = $1
			   AND is_active
			   AND (expires_at IS NULL OR expires_at > NOW())
			   AND (max_uses IS NULL OR current_uses < max_uses)
			 RETURNING id, university_id`,
			code,
		).Scan(&cid, &uid)
		if err != nil {
			if isNoRows(err) {
				return nil, ErrCodeUnavailable
			}
			return nil, fmt.Errorf("failed to claim university code: %w", err)
		}
		codeID, universityID = &cid, &uid
	}

	profile, err := scanProfile(tx.QueryRow(ctx,
		`INSERT INTO profiles (name, email, password_hash, university_code_id)
		 VALUES ($1, lower($2), $3, $4)
		 RETURNING `+profileColumns,
		in.Name, in.Email, in.PasswordHash, codeID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_roles (user_id, role, university_id) VALUES ($1, 'student', $2)`,
		profile.ID, universityID,
	); err != nil {
		return nil, fmt.Errorf("failed to grant student role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit profile: %w", err)
	}
	return profile, nil
}

// GetProfile retrieves a profile by ID. Returns nil, nil if not found.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetProfileByEmail retrieves a profile by email. Returns nil, nil if not found.
func (db *DB) GetProfileByEmail(ctx context.Context, email string) (*Profile, error) {
	if email == "" {
		return nil, nil
	}
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return p, nil
}

// GetPrimaryRole returns the user's highest role grant, preferring admin.
// Returns nil, nil when the user has no grant.
func (db *DB) GetPrimaryRole(ctx context.Context, userID uuid.UUID) (*UserRole, error) {
	var r UserRole
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, role, university_id FROM user_roles
		 WHERE user_id = $1
		 ORDER BY CASE role WHEN 'admin' THEN 0 ELSE 1 END
		 LIMIT 1`,
		userID,
	).Scan(&r.UserID, &r.Role, &r.UniversityID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return &r, nil
}

// GrantAdmin makes a user an administrator of a university
func (db *DB) GrantAdmin(ctx context.Context, userID, universityID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role, university_id) VALUES ($1, 'admin', $2)
		 ON CONFLICT (user_id, role) DO UPDATE SET university_id = EXCLUDED.university_id`,
		userID, universityID,
	)
	if err != nil {
		return fmt.Errorf("failed to grant admin: %w", err)
	}
	return nil
}

// DeleteProfile deletes a profile and everything it owns (via cascade)
func (db *DB) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// CreateUniversity creates a tenant institution
func (db *DB) CreateUniversity(ctx context.Context, name string) (*University, error) {
	var u University
	err := db.pool.QueryRow(ctx,
		`INSERT INTO universities (name) VALUES ($1) RETURNING id, name, created_at`, name,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create university: %w", err)
	}
	return &u, nil
}
