package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/config"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	store   *memStore
	jwt     *JWTService
	handler *AuthHandler
}

func newAuthFixture() *authFixture {
	store := newMemStore()
	jwtSvc := NewJWTService(config.JWTConfig{Secret: testSecret, ExpirationHours: 24})
	return &authFixture{
		store:   store,
		jwt:     jwtSvc,
		handler: NewAuthHandler(NewUserService(store, &config.PasswordConfig{BcryptCost: 4}), jwtSvc),
	}
}

func (f *authFixture) post(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body["error"]
}

func TestAuthHandler_RegisterIssuesStudentToken(t *testing.T) {
	f := newAuthFixture()

	w := f.post(f.handler.Register, `{"name":"Asha","email":"asha@example.edu","password":"password123"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.RoleStudent, resp.User.Role)
	assert.Nil(t, resp.User.UniversityCodeID)

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.GetUserID())
	assert.Equal(t, types.RoleStudent, claims.Role)
}

func TestAuthHandler_RegisterRejections(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest, "Invalid request body"},
		{"missing name", `{"email":"a@example.edu","password":"password123"}`, http.StatusBadRequest, "validation error: Name"},
		{"bad email", `{"name":"A","email":"not-an-email","password":"password123"}`, http.StatusBadRequest, "validation error: Email - email"},
		{"short password", `{"name":"A","email":"a@example.edu","password":"short"}`, http.StatusBadRequest, "validation error: Password - min"},
		{"short code", `{"name":"A","email":"a@example.edu","password":"password123","universityCode":"AB"}`, http.StatusBadRequest, "validation error: UniversityCode"},
		{"unknown code", `{"name":"A","email":"a@example.edu","password":"password123","universityCode":"NOPE1"}`, http.StatusBadRequest, db.ErrCodeUnavailable.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			w := f.post(f.handler.Register, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, errorBody(t, w), tt.want)
			assert.Empty(t, f.store.profiles)
		})
	}
}

func TestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	require.Equal(t, http.StatusCreated, f.post(f.handler.Register, `{"name":"A","email":"a@example.edu","password":"password123"}`).Code)

	w := f.post(f.handler.Register, `{"name":"B","email":"A@EXAMPLE.edu","password":"password123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, errorBody(t, w), "already registered")
}

func TestAuthHandler_Register_UniversityCodeIsUpperCased(t *testing.T) {
	f := newAuthFixture()
	f.store.codes["CSE2026"] = &db.UniversityCode{ID: uuid.New(), UniversityID: uuid.New(), Code: "CSE2026", IsActive: true}

	w := f.post(f.handler.Register, `{"name":"Asha","email":"Asha@Example.edu","password":"password123","universityCode":" cse2026 "}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "asha@example.edu", resp.User.Email)
	assert.NotNil(t, resp.User.UniversityCodeID)
	assert.Equal(t, 1, f.store.codes["CSE2026"].CurrentUses)
}

func TestAuthHandler_Login(t *testing.T) {
	f := newAuthFixture()
	require.Equal(t, http.StatusCreated, f.post(f.handler.Register, `{"name":"A","email":"a@example.edu","password":"password123"}`).Code)

	t.Run("success", func(t *testing.T) {
		w := f.post(f.handler.Login, `{"email":"a@example.edu","password":"password123"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var resp types.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "a@example.edu", resp.User.Email)
		assert.NotEmpty(t, resp.Token)
	})

	rejections := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"malformed json", `nope`, http.StatusBadRequest, "Invalid request body"},
		{"missing password", `{"email":"a@example.edu"}`, http.StatusBadRequest, "validation error: Password"},
		{"bad email", `{"email":"a-at-example","password":"x"}`, http.StatusBadRequest, "validation error: Email"},
		{"wrong password", `{"email":"a@example.edu","password":"password124"}`, http.StatusUnauthorized, "invalid email or password"},
		{"unknown email", `{"email":"b@example.edu","password":"password123"}`, http.StatusUnauthorized, "invalid email or password"},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			w := f.post(f.handler.Login, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, errorBody(t, w), tt.want)
		})
	}
}
