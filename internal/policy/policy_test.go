package policy

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workconnect/internal/model"
	"workconnect/internal/session"
	"workconnect/pkg/apierror"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	return apiErr.HTTPStatus
}

func TestRequireRoleAdmin(t *testing.T) {
	t.Parallel()

	employerSession := &session.Session{UserID: 10, Role: model.RoleEmployer}
	adminSession := &session.Session{UserID: 1, Role: model.RoleAdmin}

	err := RequireRole(employerSession, model.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	assert.NoError(t, RequireRole(adminSession, model.RoleAdmin))
}

func TestRequireRoleAnonymousIsUnauthorized(t *testing.T) {
	t.Parallel()

	err := RequireRole(&session.Session{Role: model.RoleAdmin}, model.RoleAdmin)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	err = RequireAuthenticated(nil)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestDefaultTableLookup(t *testing.T) {
	t.Parallel()

	table := Default()

	rule, ok := table.Lookup("applications", http.MethodPut, "")
	require.True(t, ok)
	assert.Equal(t, "update_status", rule.Action)
	assert.True(t, rule.StateChanging())

	err := rule.Authorize(&session.Session{UserID: 5, Role: model.RoleJobSeeker})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	assert.NoError(t, rule.Authorize(&session.Session{UserID: 6, Role: model.RoleEmployer}))

	rule, ok = table.Lookup("auth", http.MethodPost, "login")
	require.True(t, ok)
	assert.True(t, rule.Public)
	assert.NoError(t, rule.Authorize(&session.Session{}))

	rule, ok = table.Lookup("jobs", http.MethodGet, "")
	require.True(t, ok)
	assert.Equal(t, "search", rule.Action)
	assert.False(t, rule.StateChanging())

	_, ok = table.Lookup("jobs", http.MethodDelete, "apply")
	assert.False(t, ok)
	_, ok = table.Lookup("auth", http.MethodPost, "")
	assert.False(t, ok, "POST auth has no default action")
}

func TestDefaultTableResources(t *testing.T) {
	t.Parallel()

	table := Default()
	assert.Equal(t, []string{"auth", "jobs", "applications", "profiles", "upload", "admin", "dashboard", "notifications"}, table.Resources())
	assert.True(t, table.Allows("upload", http.MethodPost))
	assert.False(t, table.Allows("upload", http.MethodGet))
}

func TestEveryAdminRuleRequiresAdmin(t *testing.T) {
	t.Parallel()

	for _, rule := range Default().Rules() {
		if rule.Resource != "admin" {
			continue
		}
		assert.False(t, rule.Public, rule.Action)
		assert.Equal(t, []model.Role{model.RoleAdmin}, rule.Roles, rule.Action)
	}
}
