// Package admin implements the university staff surface: signup codes, cohort views,
// analytics and workbook export.
package admin

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{3,63}$`)

// Store is the persistence the admin surface needs
type Store interface {
	GetPrimaryRole(ctx context.Context, userID uuid.UUID) (*db.UserRole, error)
	CreateUniversityCode(ctx context.Context, universityID uuid.UUID, code string, maxUses *int, expiresAt *time.Time) (*db.UniversityCode, error)
	ListUniversityCodes(ctx context.Context, universityID uuid.UUID) ([]db.UniversityCode, error)
	DeactivateUniversityCode(ctx context.Context, universityID, codeID uuid.UUID) (*db.UniversityCode, error)
	ListCohort(ctx context.Context, universityID uuid.UUID) ([]db.CohortStudent, error)
	GetAnalytics(ctx context.Context, universityID uuid.UUID) (*db.Analytics, error)
}

// CreateCodeRequest is the body of POST /api/admin/codes
type CreateCodeRequest struct {
	Code      string     `json:"code"`
	MaxUses   *int       `json:"maxUses,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Service answers admin requests scoped to the caller's university
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a Service
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// UniversityFor returns the university the caller administers. Non-admins are unauthorized.
func (s *Service) UniversityFor(ctx context.Context, callerID uuid.UUID) (uuid.UUID, error) {
	role, err := s.store.GetPrimaryRole(ctx, callerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil || role.Role != types.RoleAdmin || role.UniversityID == nil {
		return uuid.Nil, &apperr.UnauthorizedError{Reason: "caller is not a university admin"}
	}
	return *role.UniversityID, nil
}

// CreateCode validates and stores a new signup code. Codes are stored upper-case.
func (s *Service) CreateCode(ctx context.Context, callerID uuid.UUID, req CreateCodeRequest) (*db.UniversityCode, error) {
	universityID, err := s.UniversityFor(ctx, callerID)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !codePattern.MatchString(code) {
		return nil, &apperr.InputError{Field: "code", Message: "must be 4-64 letters, digits, dashes or underscores"}
	}
	if req.MaxUses != nil && *req.MaxUses < 1 {
		return nil, &apperr.InputError{Field: "maxUses", Message: "must be at least 1"}
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(s.now()) {
		return nil, &apperr.InputError{Field: "expiresAt", Message: "must be in the future"}
	}

	c, err := s.store.CreateUniversityCode(ctx, universityID, code, req.MaxUses, req.ExpiresAt)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateCode) {
			return nil, &apperr.ConflictError{Message: "code already exists"}
		}
		return nil, err
	}
	log.Info().Str("university_id", universityID.String()).Str("code", code).Msg("signup code created")
	return c, nil
}

// ListCodes lists the caller's university codes
func (s *Service) ListCodes(ctx context.Context, callerID uuid.UUID) ([]db.UniversityCode, error) {
	universityID, err := s.UniversityFor(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.store.ListUniversityCodes(ctx, universityID)
}

// DeactivateCode turns off one of the caller's codes
func (s *Service) DeactivateCode(ctx context.Context, callerID, codeID uuid.UUID) (*db.UniversityCode, error) {
	universityID, err := s.UniversityFor(ctx, callerID)
	if err != nil {
		return nil, err
	}
	c, err := s.store.DeactivateUniversityCode(ctx, universityID, codeID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &apperr.NotFoundError{Resource: "university code", ID: codeID.String()}
	}
	return c, nil
}

// Cohort lists the students of the caller's university
func (s *Service) Cohort(ctx context.Context, callerID uuid.UUID) ([]db.CohortStudent, error) {
	universityID, err := s.UniversityFor(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.store.ListCohort(ctx, universityID)
}

// Analytics aggregates the caller's university activity
func (s *Service) Analytics(ctx context.Context, callerID uuid.UUID) (*db.Analytics, error) {
	universityID, err := s.UniversityFor(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.store.GetAnalytics(ctx, universityID)
}

// Report is the data written to an export workbook
type Report struct {
	UniversityID uuid.UUID
	GeneratedAt  time.Time
	Students     []db.CohortStudent
	Analytics    *db.Analytics
}

// BuildReport loads the cohort and analytics of a university without a caller check.
// The CLI uses it directly; HTTP callers go through Export.
func (s *Service) BuildReport(ctx context.Context, universityID uuid.UUID) (*Report, error) {
	students, err := s.store.ListCohort(ctx, universityID)
	if err != nil {
		return nil, err
	}
	analytics, err := s.store.GetAnalytics(ctx, universityID)
	if err != nil {
		return nil, err
	}
	return &Report{UniversityID: universityID, GeneratedAt: s.now(), Students: students, Analytics: analytics}, nil
}

// Export builds the caller's university report as an XLSX workbook
func (s *Service) Export(ctx context.Context, callerID uuid.UUID) ([]byte, error) {
	universityID, err := s.UniversityFor(ctx, callerID)
	if err != nil {
		return nil, err
	}
	report, err := s.BuildReport(ctx, universityID)
	if err != nil {
		return nil, err
	}
	return WriteWorkbook(report)
}
