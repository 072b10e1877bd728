//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workconnect/internal/model"
)

func TestSecurityHeadersOnAPIResponses(t *testing.T) {
	s := newStack(t)

	resp, err := http.Get(s.server.URL + "/api/v1/jobs")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestLoginRejectsMissingCSRFToken(t *testing.T) {
	s := newStack(t)

	email := uniqueEmail("seeker")
	c := s.client(t)
	c.register(email, model.RoleJobSeeker)

	c.token = ""
	status, body := c.call(http.MethodPost, "/api/v1/auth?action=login", map[string]string{"email": email, "password": "password123"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Invalid or missing CSRF token.", body.Message)
}

func TestLogoutEndsSession(t *testing.T) {
	s := newStack(t)

	email := uniqueEmail("seeker")
	c := s.client(t)
	c.register(email, model.RoleJobSeeker)
	c.login(email, "password123")
	assert.Equal(t, true, c.refreshToken()["logged_in"])

	c.mustCall(http.MethodPost, "/api/v1/auth?action=logout", nil, http.StatusOK)
	assert.Equal(t, false, c.refreshToken()["logged_in"])

	status, _ := c.call(http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestDuplicateRegistration(t *testing.T) {
	s := newStack(t)

	email := uniqueEmail("dup")
	c := s.client(t)
	c.register(email, model.RoleJobSeeker)

	status, body := c.call(http.MethodPost, "/api/v1/auth?action=register", map[string]string{
		"email": email, "password": "password123", "confirm_password": "password123",
		"first_name": "Again", "last_name": "User", "user_type": "job_seeker",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Email already registered.", body.Data.(map[string]any)["errors"].(map[string]any)["email"])
}
