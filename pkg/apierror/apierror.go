package apierror

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

type APIError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    string            `json:"details,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	HTTPStatus int               `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for key := range e.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(keys, ", "))
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

func BadRequest(message string) *APIError {
	return New("BAD_REQUEST", message, "", http.StatusBadRequest)
}

func Unauthorized(message string) *APIError {
	return New("UNAUTHORIZED", message, "", http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return New("FORBIDDEN", message, "", http.StatusForbidden)
}

// RateLimited tells the client how long the current window lasts.
func RateLimited(window time.Duration) *APIError {
	return New("RATE_LIMITED", "Rate limit exceeded. Please try again in "+humanWindow(window)+".", "", http.StatusTooManyRequests)
}

func Internal(details string) *APIError {
	return New("INTERNAL_ERROR", "An internal error occurred. Please try again later.", details, http.StatusInternalServerError)
}

// Validation builds a 422 carrying one message per failed field.
func Validation(fields map[string]string) *APIError {
	return &APIError{
		Code:       "VALIDATION_FAILED",
		Message:    "Validation failed.",
		Fields:     fields,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// FieldError is a Validation error for a single field.
func FieldError(field string, message string) *APIError {
	e := Validation(map[string]string{field: message})
	e.Message = message
	return e
}

func humanWindow(d time.Duration) string {
	switch {
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	case d >= time.Second:
		return plural(int(d.Round(time.Second)/time.Second), "second")
	default:
		return "a moment"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
