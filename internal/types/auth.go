// Package types provides type definitions for structured data used throughout the interview simulator.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Role names stored in user_roles.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// CreateUserRequest represents a student signup, optionally tied to a university signup code.
type CreateUserRequest struct {
	Name           string `json:"name" validate:"required,min=1"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	UniversityCode string `json:"universityCode,omitempty" validate:"omitempty,min=4,max=64"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a profile for API responses (avoids import cycle with db package).
type User struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	UniversityCodeID *uuid.UUID `json:"universityCodeId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the signup fields.
func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// Validate checks the login fields.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}
