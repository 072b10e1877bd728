package validate

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workconnect/pkg/apierror"
)

func TestCheckRegistrationShape(t *testing.T) {
	t.Parallel()

	in := Input{
		"email":            "not-an-email",
		"password":         "short",
		"confirm_password": "different",
		"first_name":       "",
		"user_type":        "recruiter",
	}

	errs := Check(in,
		Field("email", Required(), Email()),
		Field("password", Required(), MinLength(8)),
		Field("confirm_password", Required(), Matches("password")),
		Field("first_name", Required(), MaxLength(50)),
		Field("user_type", Required(), OneOf("job_seeker", "employer")),
	)

	require.True(t, errs.Fails())
	assert.Equal(t, Errors{
		"email":            "Invalid email format",
		"password":         "Password must be at least 8 characters",
		"confirm_password": "Confirm password and password must match",
		"first_name":       "First name is required",
		"user_type":        "User type has an invalid value",
	}, errs)
}

func TestFirstFailureWins(t *testing.T) {
	t.Parallel()

	errs := Check(Input{"phone": "abc"},
		Field("phone", Numeric(), MinLength(10), Custom(func(string) bool { return false }, "never reached")),
	)
	assert.Equal(t, "Phone must be a number", errs["phone"])
}

func TestOptionalRulesSkipBlankValues(t *testing.T) {
	t.Parallel()

	errs := Check(Input{"website_url": "  ", "expected_salary": ""},
		Field("website_url", URL()),
		Field("expected_salary", Numeric()),
		Field("availability_date", DateFormat("2006-01-02")),
	)
	assert.False(t, errs.Fails())
	assert.NoError(t, errs.Err())
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		rule  Rule
		value string
		ok    bool
	}{
		{"email ok", Email(), "juan@email.com", true},
		{"email bad", Email(), "juan@", false},
		{"numeric int", Numeric(), "25000", true},
		{"numeric decimal", Numeric(), "25000.50", true},
		{"numeric words", Numeric(), "25k", false},
		{"date ok", DateFormat("2006-01-02"), "2026-05-31", true},
		{"date bad", DateFormat("2006-01-02"), "31/05/2026", false},
		{"url ok", URL(), "https://workconnect.ph", true},
		{"url bad", URL(), "workconnect", false},
		{"max length runes", MaxLength(4), "ñañà", true},
		{"one of", OneOf("1-10", "500+"), "500+", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Check(Input{"f": tc.value}, Field("f", tc.rule))
			assert.Equal(t, tc.ok, !errs.Fails(), errs)
		})
	}
}

func TestWithMessageOverrides(t *testing.T) {
	t.Parallel()

	errs := Check(Input{}, Field("company_name", Required().WithMessage("Company name is required for employers")))
	assert.Equal(t, "Company name is required for employers", errs["company_name"])
}

func TestErrConvertsTo422(t *testing.T) {
	t.Parallel()

	err := Check(Input{}, Field("email", Required())).Err()
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.HTTPStatus)
	assert.Equal(t, "Email is required", apiErr.Fields["email"])
	assert.True(t, strings.HasPrefix(apiErr.Error(), "VALIDATION_FAILED"))
}
