package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/config"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUser(t *testing.T) {
	t.Run("valid profile", func(t *testing.T) {
		codeID := uuid.New()
		p := &db.Profile{
			ID:               uuid.New(),
			Name:             "John Doe",
			Email:            "john@example.com",
			PasswordHash:     "hashed-password",
			UniversityCodeID: &codeID,
			CreatedAt:        time.Now(),
		}

		u := toUser(p, "")
		require.NotNil(t, u)
		assert.Equal(t, p.ID, u.ID)
		assert.Equal(t, p.Email, u.Email)
		assert.Equal(t, types.RoleStudent, u.Role)
		assert.Equal(t, &codeID, u.UniversityCodeID)
	})

	t.Run("nil profile", func(t *testing.T) {
		assert.Nil(t, toUser(nil, types.RoleAdmin))
	})
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store, &config.PasswordConfig{BcryptCost: 4, Pepper: "pepper"})

	user, err := svc.Register(context.Background(), &types.CreateUserRequest{Name: " Asha ", Email: "Asha@Example.edu", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "asha@example.edu", user.Email)
	assert.NotEqual(t, "password123", store.profiles[user.ID].PasswordHash)

	got, err := svc.Login(context.Background(), &types.LoginRequest{Email: "asha@example.edu", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Login(context.Background(), &types.LoginRequest{Email: "asha@example.edu", Password: "wrong"})
	assert.IsType(t, &ErrInvalidCredentials{}, err)

	_, err = svc.Login(context.Background(), &types.LoginRequest{Email: "nobody@example.edu", Password: "password123"})
	assert.IsType(t, &ErrInvalidCredentials{}, err)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc := NewUserService(newMemStore(), &config.PasswordConfig{BcryptCost: 4})
	_, err := svc.Register(context.Background(), &types.CreateUserRequest{Name: "A", Email: "a@example.edu", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &types.CreateUserRequest{Name: "B", Email: "A@example.edu", Password: "password123"})
	var exists *ErrEmailAlreadyExists
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "a@example.edu", exists.Email)
}

func TestUserService_RegisterCodeUnavailable(t *testing.T) {
	store := newMemStore()
	limit := 1
	store.codes["FULL"] = &db.UniversityCode{ID: uuid.New(), Code: "FULL", IsActive: true, MaxUses: &limit, CurrentUses: 1}
	svc := NewUserService(store, &config.PasswordConfig{BcryptCost: 4})

	_, err := svc.Register(context.Background(), &types.CreateUserRequest{Name: "A", Email: "a@example.edu", Password: "password123", UniversityCode: "full"})
	assert.True(t, errors.Is(err, db.ErrCodeUnavailable))
	assert.Empty(t, store.profiles)
}
