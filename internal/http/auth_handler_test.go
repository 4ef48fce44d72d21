package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/auth"
)

func newMockAuth() *mockAuth {
	return &mockAuth{token: "token-1", user: auth.User{ID: "u1", Email: "owner@example.com"}}
}

func TestLogin(t *testing.T) {
	handler := NewAuthHandler(newMockAuth(), 5*time.Second)

	t.Run("success", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.Login(recorder, postJSON(t, "POST", "/api/v1/auth/login", LoginRequestDTO{Email: " owner@example.com ", Password: "secret"}))

		require.Equal(t, http.StatusOK, recorder.Code)
		var resp LoginResponseDTO
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "token-1", resp.AccessToken)
		assert.Equal(t, "owner@example.com", resp.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.Login(recorder, postJSON(t, "POST", "/api/v1/auth/login", LoginRequestDTO{Email: "owner@example.com", Password: "nope"}))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "unauthenticated", resp.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.Login(recorder, postJSON(t, "POST", "/api/v1/auth/login", LoginRequestDTO{Email: "owner@example.com"}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestLogin_AuthServiceDown(t *testing.T) {
	authn := newMockAuth()
	authn.err = auth.ErrUnavailable
	handler := NewAuthHandler(authn, 5*time.Second)
	recorder := httptest.NewRecorder()

	handler.Login(recorder, postJSON(t, "POST", "/api/v1/auth/login", LoginRequestDTO{Email: "a@b.c", Password: "secret"}))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestLogout(t *testing.T) {
	handler := NewAuthHandler(newMockAuth(), 5*time.Second)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/auth/logout", nil)
	request.Header.Set("Authorization", "Bearer token-1")
	handler.Logout(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.Logout(recorder, httptest.NewRequest("POST", "/api/v1/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
