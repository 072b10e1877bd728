package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workconnect/internal/model"
	"workconnect/internal/policy"
	"workconnect/pkg/apierror"
)

type stubResource struct {
	responder
	resource string
	set      actionSet
}

func (s *stubResource) name() string       { return s.resource }
func (s *stubResource) actions() actionSet { return s.set }

func noop(http.ResponseWriter, *http.Request) {}

func TestNewDispatcherRequiresOneToOneMapping(t *testing.T) {
	t.Parallel()

	table := policy.NewTable(
		policy.Rule{Resource: "jobs", Method: http.MethodGet, Action: "search", Public: true, Default: true},
		policy.Rule{Resource: "jobs", Method: http.MethodPost, Action: "apply"},
	)

	_, err := NewDispatcher(table, false, &stubResource{resource: "jobs", set: actionSet{
		actionKey(http.MethodGet, "search"): noop,
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler for jobs POST apply")

	_, err = NewDispatcher(table, false, &stubResource{resource: "jobs", set: actionSet{
		actionKey(http.MethodGet, "search"):  noop,
		actionKey(http.MethodPost, "apply"):  noop,
		actionKey(http.MethodPost, "delete"): noop,
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no policy rule for jobs POST delete")

	stub := &stubResource{resource: "jobs", set: actionSet{
		actionKey(http.MethodGet, "search"): noop,
		actionKey(http.MethodPost, "apply"): noop,
	}}
	d, err := NewDispatcher(table, true, stub)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.True(t, stub.showDetails, "dispatcher configures every resource")
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()
	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		err         error
		showDetails bool
		status      int
		message     string
		field       string
	}{
		{"validation", apierror.FieldError("email", "Email is required"), false, http.StatusUnprocessableEntity, "Validation failed", "email"},
		{"sentinel with field", fmt.Errorf("apply: %w", model.ErrAlreadyApplied), false, http.StatusUnprocessableEntity, "", "job_id"},
		{"sentinel", model.ErrJobNotFound, false, http.StatusNotFound, "Job not found.", ""},
		{"forbidden", model.ErrForbidden, false, http.StatusForbidden, "Access denied.", ""},
		{"unknown hidden", errors.New("pq: relation missing"), false, http.StatusInternalServerError, internalMessage, ""},
		{"unknown detailed", errors.New("pq: relation missing"), true, http.StatusInternalServerError, internalMessage, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
			responder{showDetails: tc.showDetails}.writeError(rec, req, tc.err)

			require.Equal(t, tc.status, rec.Code)
			body := decodeBody(t, rec)
			assert.False(t, body.Success)
			if tc.message != "" && tc.field == "" {
				assert.Equal(t, tc.message, body.Message)
			}

			switch {
			case tc.field != "":
				errs := body.Data.(map[string]any)["errors"].(map[string]any)
				assert.Contains(t, errs, tc.field)
			case tc.status == http.StatusInternalServerError && tc.showDetails:
				assert.Equal(t, "pq: relation missing", body.Data.(map[string]any)["error"])
			default:
				assert.Nil(t, body.Data)
			}
		})
	}
}

func TestDecodeFormFields(t *testing.T) {
	t.Parallel()

	form := url.Values{}
	form.Set("job_title", "Backend Developer")
	form.Set("category_id", "4")
	form.Add("skills[]", "Go")
	form.Add("skills[]", "PostgreSQL")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs?action=post_job", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var payload model.PostJobRequest
	require.NoError(t, decode(req, &payload))
	assert.Equal(t, "Backend Developer", payload.Title)
	assert.Equal(t, int64(4), payload.CategoryID.Int64())
	assert.Equal(t, []string{"Go", "PostgreSQL"}, payload.Skills)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs?action=apply", strings.NewReader(`{"job_id":`))
	req.Header.Set("Content-Type", "application/json")

	var payload model.ApplyRequest
	err := decode(req, &payload)
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(map[string]Check{
		"database": func(_ context.Context) error { return nil },
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, map[string]any{"database": "up"}, body.Data)
}
