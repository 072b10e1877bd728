package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"workconnect/internal/model"
	"workconnect/pkg/apierror"
)

const internalMessage = "An internal error occurred. Please try again later."

// responder writes the API envelope. showDetails exposes internal error
// text outside production.
type responder struct {
	showDetails bool
}

func (rs *responder) configure(showDetails bool) {
	rs.showDetails = showDetails
}

func writeJSON(w http.ResponseWriter, status int, body model.APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, model.NewResponse(true, message, data))
}

// sentinels maps domain errors to the status and message clients see.
var sentinels = []struct {
	err     error
	status  int
	message string
	field   string
}{
	{model.ErrUserNotFound, http.StatusNotFound, "User not found.", ""},
	{model.ErrEmailTaken, http.StatusUnprocessableEntity, "Email already registered.", "email"},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password.", ""},
	{model.ErrAccountInactive, http.StatusUnauthorized, "Invalid email or password.", ""},
	{model.ErrTokenNotFound, http.StatusBadRequest, "Invalid or expired token.", ""},
	{model.ErrTokenExpired, http.StatusBadRequest, "Invalid or expired token.", ""},
	{model.ErrUnauthorized, http.StatusUnauthorized, "Authentication required.", ""},
	{model.ErrForbidden, http.StatusForbidden, "Access denied.", ""},
	{model.ErrJobNotFound, http.StatusNotFound, "Job not found.", ""},
	{model.ErrJobNotOpen, http.StatusBadRequest, "This job is no longer accepting applications.", ""},
	{model.ErrCategoryNotFound, http.StatusUnprocessableEntity, "Selected category does not exist", "category_id"},
	{model.ErrApplicationNotFound, http.StatusNotFound, "Application not found.", ""},
	{model.ErrAlreadyApplied, http.StatusUnprocessableEntity, "You have already applied for this job.", "job_id"},
	{model.ErrInvalidTransition, http.StatusUnprocessableEntity, "Invalid status transition.", "status"},
	{model.ErrProfileNotFound, http.StatusNotFound, "Profile not found.", ""},
	{model.ErrNotificationNotFound, http.StatusNotFound, "Notification not found.", ""},
	{model.ErrInvalidInput, http.StatusBadRequest, "Invalid input.", ""},
}

func (rs responder) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.HTTPStatus, rs.envelope(apiErr))
		return
	}

	for _, s := range sentinels {
		if !errors.Is(err, s.err) {
			continue
		}
		if s.field != "" {
			writeJSON(w, s.status, rs.envelope(apierror.FieldError(s.field, s.message)))
			return
		}
		writeJSON(w, s.status, model.NewResponse(false, s.message, nil))
		return
	}

	slog.Error("unhandled error", "method", r.Method, "path", r.URL.Path, "action", r.URL.Query().Get("action"), "error", err)
	var data any
	if rs.showDetails {
		data = map[string]string{"error": err.Error()}
	}
	writeJSON(w, http.StatusInternalServerError, model.NewResponse(false, internalMessage, data))
}

func (rs responder) envelope(apiErr *apierror.APIError) model.APIResponse {
	switch {
	case len(apiErr.Fields) > 0:
		return model.NewResponse(false, apiErr.Message, map[string]any{"errors": apiErr.Fields})
	case apiErr.HTTPStatus >= http.StatusInternalServerError:
		var data any
		if rs.showDetails && apiErr.Details != "" {
			data = map[string]string{"error": apiErr.Details}
		}
		return model.NewResponse(false, internalMessage, data)
	default:
		return model.NewResponse(false, apiErr.Message, nil)
	}
}

func errorResponse(message string) model.APIResponse {
	return model.NewResponse(false, message, nil)
}

// WriteEnvelope lets routing code answer in the API envelope.
func WriteEnvelope(w http.ResponseWriter, status int, body model.APIResponse) {
	writeJSON(w, status, body)
}
