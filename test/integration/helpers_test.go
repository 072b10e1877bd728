//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"workconnect/internal/app"
	"workconnect/internal/config"
	"workconnect/internal/csrf"
	"workconnect/internal/database"
	"workconnect/internal/metrics"
	"workconnect/internal/model"
	"workconnect/internal/repository"
	"workconnect/internal/service"
)

var emailSeq atomic.Int64

// uniqueEmail keeps reruns against the same database independent.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s+%d.%d@workconnect.test", prefix, time.Now().UnixNano(), emailSeq.Add(1))
}

type stack struct {
	server *httptest.Server
	db     *database.DB
}

// newStack builds the full application against TEST_DATABASE_URL.
func newStack(t *testing.T) *stack {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, database.Migrate(url))
	db, err := database.New(context.Background(), database.Options{URL: url, MaxConns: 5, MinConns: 1, SlowQueryThreshold: time.Second})
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(context.Background()))

	cfg := &config.Config{
		AppEnv:                "test",
		AppURL:                "http://localhost:8080",
		RequestTimeout:        10 * time.Second,
		SessionLifetime:       time.Hour,
		SessionRotateInterval: 30 * time.Minute,
		CSRFTokenExpiry:       time.Hour,
		RateLimitMax:          1000,
		RateLimitWindow:       time.Minute,
		TokenSecret:           "integration-secret-integration-secret",
		UploadRoot:            t.TempDir(),
		MaxUploadSize:         2 << 20,
		CORSOrigins:           []string{"http://localhost:8080"},
		MailRatePerSecond:     100,
	}

	h, stop, err := app.NewHandler(cfg, db, nil, metrics.New())
	require.NoError(t, err)

	server := httptest.NewServer(h)
	t.Cleanup(func() {
		server.Close()
		stop()
		db.Close()
	})
	return &stack{server: server, db: db}
}

type client struct {
	t     *testing.T
	base  string
	http  *http.Client
	token string
}

func (s *stack) client(t *testing.T) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &client{t: t, base: s.server.URL, http: &http.Client{Jar: jar, Timeout: 15 * time.Second}}
	c.refreshToken()
	return c
}

func (c *client) refreshToken() map[string]any {
	c.t.Helper()
	status, body := c.call(http.MethodGet, "/api/v1/auth?action=check", nil)
	require.Equal(c.t, http.StatusOK, status)
	data := body.Data.(map[string]any)
	c.token = data["csrf_token"].(string)
	return data
}

func (c *client) call(method string, path string, payload any) (int, model.APIResponse) {
	c.t.Helper()

	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(csrf.HeaderName, c.token)
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var body model.APIResponse
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func (c *client) mustCall(method string, path string, payload any, want int) model.APIResponse {
	c.t.Helper()
	status, body := c.call(method, path, payload)
	require.Equal(c.t, want, status, "%s %s: %s", method, path, body.Message)
	return body
}

func (c *client) login(email string, password string) {
	c.t.Helper()
	c.mustCall(http.MethodPost, "/api/v1/auth?action=login", map[string]string{"email": email, "password": password}, http.StatusOK)
	c.refreshToken()
}

func (c *client) register(email string, role model.Role) {
	c.t.Helper()
	payload := map[string]string{
		"email":            email,
		"password":         "password123",
		"confirm_password": "password123",
		"first_name":       "Test",
		"last_name":        "User",
		"user_type":        string(role),
	}
	if role == model.RoleEmployer {
		payload["company_name"] = "Bayanihan Tech Inc."
	}
	c.mustCall(http.MethodPost, "/api/v1/auth?action=register", payload, http.StatusCreated)
}

func (s *stack) admin(t *testing.T) *client {
	t.Helper()
	email := uniqueEmail("admin")
	_, _, err := service.EnsureAdminAccount(context.Background(), repository.NewUserRepository(s.db.Pool), service.AdminAccountRequest{
		Email: email, Password: "admin-password", FirstName: "Site", LastName: "Admin",
	})
	require.NoError(t, err)

	c := s.client(t)
	c.login(email, "admin-password")
	return c
}

func number(t *testing.T, v any) int64 {
	t.Helper()
	f, ok := v.(float64)
	require.True(t, ok, "expected a JSON number, got %T", v)
	return int64(f)
}
