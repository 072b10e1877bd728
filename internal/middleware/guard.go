package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"workconnect/internal/csrf"
	"workconnect/internal/policy"
	"workconnect/internal/session"
	"workconnect/pkg/apierror"
)

const (
	maxCSRFBodyBytes  = 1 << 20
	multipartMemory   = 8 << 20
	csrfFailedMessage = "Invalid or missing CSRF token."
)

type ruleContextKey struct{}

// RuleFromContext returns the access rule the guard matched for this request.
func RuleFromContext(ctx context.Context) (policy.Rule, bool) {
	rule, ok := ctx.Value(ruleContextKey{}).(policy.Rule)
	return rule, ok
}

// Guard resolves the {resource} route parameter and ?action= against the
// policy table, checks the CSRF token on state-changing calls and then the
// caller's role. Handlers only run once all three pass.
func Guard(table *policy.Table, tokens *csrf.Manager) func(http.Handler) http.Handler {
	resources := table.Resources()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resource := chi.URLParam(r, "resource")
			rule, ok := table.Lookup(resource, r.Method, r.URL.Query().Get("action"))
			if !ok {
				switch {
				case !slices.Contains(resources, resource):
					writeEnvelope(w, http.StatusNotFound, "Endpoint not found.", nil)
				case !table.Allows(resource, r.Method):
					writeEnvelope(w, http.StatusMethodNotAllowed, "Method not allowed.", nil)
				default:
					writeEnvelope(w, http.StatusBadRequest, "Invalid action.", nil)
				}
				return
			}

			s, _ := session.FromContext(r.Context())
			if rule.StateChanging() && !tokens.Validate(s, csrfCandidate(r)) {
				writeEnvelope(w, http.StatusForbidden, csrfFailedMessage, nil)
				return
			}

			if err := rule.Authorize(s); err != nil {
				var apiErr *apierror.APIError
				if errors.As(err, &apiErr) {
					writeEnvelope(w, apiErr.HTTPStatus, apiErr.Message, nil)
					return
				}
				writeEnvelope(w, http.StatusForbidden, "Access denied.", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ruleContextKey{}, rule)))
		})
	}
}

// csrfCandidate looks for the token in the header, then the JSON body, then
// form fields. A JSON body is restored for the handler after peeking.
func csrfCandidate(r *http.Request) string {
	if token := r.Header.Get(csrf.HeaderName); token != "" {
		return token
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if r.Body == nil {
			return ""
		}
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxCSRFBodyBytes))
		r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), r.Body))
		if err != nil {
			return ""
		}
		var body struct {
			Token string `json:"csrf_token"`
		}
		if json.Unmarshal(raw, &body) != nil {
			return ""
		}
		return body.Token
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return ""
		}
		return r.FormValue(csrf.FieldName)
	case "application/x-www-form-urlencoded":
		return r.PostFormValue(csrf.FieldName)
	default:
		return ""
	}
}
