package apierror

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitedNamesTheWindow(t *testing.T) {
	tests := []struct {
		window time.Duration
		want   string
	}{
		{time.Minute, "Rate limit exceeded. Please try again in 1 minute."},
		{5 * time.Minute, "Rate limit exceeded. Please try again in 5 minutes."},
		{90 * time.Second, "Rate limit exceeded. Please try again in 90 seconds."},
		{time.Second, "Rate limit exceeded. Please try again in 1 second."},
	}

	for _, tt := range tests {
		err := RateLimited(tt.window)
		assert.Equal(t, http.StatusTooManyRequests, err.HTTPStatus)
		assert.Equal(t, "RATE_LIMITED", err.Code)
		assert.Equal(t, tt.want, err.Message)
	}
}

func TestErrorStringListsFields(t *testing.T) {
	err := Validation(map[string]string{"email": "Invalid email", "password": "Required"})
	assert.Equal(t, "VALIDATION_FAILED: Validation failed. (email, password)", err.Error())

	single := FieldError("job_id", "You have already applied for this job.")
	assert.Equal(t, "You have already applied for this job.", single.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, single.HTTPStatus)

	internal := Internal("pool closed")
	assert.Equal(t, "INTERNAL_ERROR: An internal error occurred. Please try again later. (pool closed)", internal.Error())
}
