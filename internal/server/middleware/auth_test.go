package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubValidator accepts a single known token and maps it to a fixed user.
type stubValidator struct {
	token  string
	userID uuid.UUID
}

func (v *stubValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	if tokenString != v.token {
		return nil, fmt.Errorf("invalid token")
	}
	return stubClaims{userID: v.userID}, nil
}

type stubClaims struct {
	userID uuid.UUID
}

func (c stubClaims) GetUserID() uuid.UUID { return c.userID }

// protect wraps a probe handler and reports whether it was reached and what
// user ID it saw.
func protect(t *testing.T, validator TokenValidator) (http.Handler, *bool, *uuid.UUID) {
	t.Helper()
	called := false
	var seenUserID uuid.UUID
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		userID, err := GetUserID(r)
		require.NoError(t, err)
		seenUserID = userID
		w.WriteHeader(http.StatusOK)
	})
	return AuthMiddleware(validator)(handler), &called, &seenUserID
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	validator := &stubValidator{token: "valid-test-token", userID: userID}
	wrapped, called, seenUserID := protect(t, validator)

	req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
	req.Header.Set("Authorization", "Bearer valid-test-token")
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.True(t, *called, "handler should be called")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *seenUserID)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	validator := &stubValidator{token: "valid-test-token", userID: uuid.New()}

	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "missing header", authHeader: ""},
		{name: "missing Bearer prefix", authHeader: "valid-test-token"},
		{name: "only Bearer", authHeader: "Bearer"},
		{name: "empty token", authHeader: "Bearer "},
		{name: "unknown token", authHeader: "Bearer some-other-token"},
		{name: "malformed token", authHeader: "Bearer not.a.valid.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped, called, _ := protect(t, validator)

			req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			assert.False(t, *called, "handler should not be called")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Unauthorized")
		})
	}
}

func TestGetUserID_Success(t *testing.T) {
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, userID))

	extracted, err := GetUserID(req)
	require.NoError(t, err)
	assert.Equal(t, userID, extracted)
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/resumes", nil)

	userID, err := GetUserID(req)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, userID)
	assert.Contains(t, err.Error(), "user ID not found")
}

func TestGetUserID_InvalidType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, "not-a-uuid"))

	userID, err := GetUserID(req)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, userID)
}
