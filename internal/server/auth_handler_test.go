package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/types"
)

func newTestAuthHandler(t *testing.T) (*AuthHandler, *fakeDB) {
	t.Helper()
	passwordConfig := &config.PasswordConfig{BcryptCost: 10}
	jwtConfig := &config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 24,
	}

	database := newFakeDB()
	userSvc := NewUserService(database, passwordConfig)
	jwtSvc := NewJWTService(jwtConfig)
	return NewAuthHandler(userSvc, jwtSvc), database
}

func postJSON(t *testing.T, body any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestAuthHandler_Register(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", postJSON(t, map[string]string{
		"name": "John Doe", "email": "john@example.com", "password": "password-123",
	}))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "John Doe", resp.User.Name)
	assert.NotEmpty(t, resp.Token, "registration should return a usable token")
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	body := map[string]string{"name": "John Doe", "email": "john@example.com", "password": "password-123"}

	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", postJSON(t, body)))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", postJSON(t, body)))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		reqBody map[string]string
	}{
		{name: "missing name", reqBody: map[string]string{"email": "test@example.com", "password": "password123"}},
		{name: "invalid email", reqBody: map[string]string{"name": "Test User", "email": "invalid-email", "password": "password123"}},
		{name: "password too short", reqBody: map[string]string{"name": "Test User", "email": "test@example.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestAuthHandler(t)

			w := httptest.NewRecorder()
			handler.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", postJSON(t, tt.reqBody)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("invalid json"))))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestAuthHandler_Login(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", postJSON(t, map[string]string{
		"name": "John Doe", "email": "john@example.com", "password": "password-123",
	})))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	handler.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", postJSON(t, map[string]string{
		"email": "john@example.com", "password": "password-123",
	})))

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", postJSON(t, map[string]string{
		"name": "John Doe", "email": "john@example.com", "password": "password-123",
	})))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	handler.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", postJSON(t, map[string]string{
		"email": "john@example.com", "password": "wrong-password",
	})))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		reqBody map[string]string
	}{
		{name: "missing email", reqBody: map[string]string{"password": "password123"}},
		{name: "invalid email format", reqBody: map[string]string{"email": "invalid-email", "password": "password123"}},
		{name: "missing password", reqBody: map[string]string{"email": "test@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestAuthHandler(t)

			w := httptest.NewRecorder()
			handler.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", postJSON(t, tt.reqBody)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", postJSON(t, map[string]string{
		"name": "John Doe", "email": "john@example.com", "password": "password-123",
	})))
	require.Equal(t, http.StatusCreated, w.Code)
	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = httptest.NewRecorder()
	handler.UpdatePasswordWithUserID(w, httptest.NewRequest(http.MethodPut, "/auth/password", postJSON(t, map[string]string{
		"current_password": "password-123", "new_password": "new-password-456",
	})), resp.User.ID)
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong current password is rejected
	w = httptest.NewRecorder()
	handler.UpdatePasswordWithUserID(w, httptest.NewRequest(http.MethodPut, "/auth/password", postJSON(t, map[string]string{
		"current_password": "password-123", "new_password": "another-password",
	})), resp.User.ID)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_UpdatePassword_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		reqBody map[string]string
	}{
		{name: "missing current password", reqBody: map[string]string{"new_password": "newpassword123"}},
		{name: "new password too short", reqBody: map[string]string{"current_password": "oldpassword", "new_password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, database := newTestAuthHandler(t)
			userID := database.addUser("John Doe", "john@example.com")

			w := httptest.NewRecorder()
			handler.UpdatePasswordWithUserID(w, httptest.NewRequest(http.MethodPut, "/auth/password", postJSON(t, tt.reqBody)), userID)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}
