package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/config"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UserStore is the persistence the account service needs
type UserStore interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateProfile(ctx context.Context, in db.ProfileInput) (*db.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*db.Profile, error)
	GetPrimaryRole(ctx context.Context, userID uuid.UUID) (*db.UserRole, error)
}

// UserService provides business logic for user authentication operations
type UserService struct {
	db             UserStore
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(db UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		db:             db,
		passwordConfig: passwordConfig,
	}
}

// toUser converts a profile for API responses, excluding the password hash
func toUser(p *db.Profile, role string) *types.User {
	if p == nil {
		return nil
	}
	if role == "" {
		role = types.RoleStudent
	}
	return &types.User{
		ID:               p.ID,
		Name:             p.Name,
		Email:            p.Email,
		Role:             role,
		UniversityCodeID: p.UniversityCodeID,
		CreatedAt:        p.CreatedAt,
	}
}

// Register creates a student profile. A university code, when given, is claimed in the
// same transaction; db.ErrCodeUnavailable is returned if it cannot be used.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.db.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile, err := s.db.CreateProfile(ctx, db.ProfileInput{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		PasswordHash:   passwordHash,
		UniversityCode: strings.ToUpper(strings.TrimSpace(req.UniversityCode)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	log.Info().Str("user_id", profile.ID.String()).Bool("university_code", profile.UniversityCodeID != nil).Msg("user registered")
	return toUser(profile, types.RoleStudent), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	profile, err := s.db.GetProfileByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Unknown email and wrong password are indistinguishable to the caller.
	if profile == nil || profile.PasswordHash == "" {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, profile.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	role, err := s.db.GetPrimaryRole(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	var roleName string
	if role != nil {
		roleName = role.Role
	}
	return toUser(profile, roleName), nil
}
