package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString accepts a JSON string, number, bool or null. Form posts and
// script clients disagree on whether ids and amounts are quoted.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	*f = FlexString(string(trimmed))
	return nil
}

func (f FlexString) String() string {
	return strings.TrimSpace(string(f))
}

func (f FlexString) Int64() int64 {
	v, err := strconv.ParseInt(f.String(), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Float returns nil for an empty or unparsable value.
func (f FlexString) Float() *float64 {
	raw := f.String()
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (f FlexString) Bool() bool {
	v, err := strconv.ParseBool(f.String())
	return err == nil && v
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	UserType        string `json:"user_type"`
	CompanyName     string `json:"company_name"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type ApplyRequest struct {
	JobID            FlexString `json:"job_id"`
	CoverLetter      string     `json:"cover_letter"`
	ExpectedSalary   FlexString `json:"expected_salary"`
	AvailabilityDate string     `json:"availability_date"`
}

type JobRefRequest struct {
	JobID FlexString `json:"job_id"`
}

type PostJobRequest struct {
	CategoryID          FlexString `json:"category_id"`
	Title               string     `json:"job_title"`
	Description         string     `json:"job_description"`
	Requirements        string     `json:"requirements"`
	SalaryMin           FlexString `json:"salary_min"`
	SalaryMax           FlexString `json:"salary_max"`
	JobType             string     `json:"job_type"`
	ExperienceLevel     string     `json:"experience_level"`
	Location            string     `json:"location"`
	ApplicationDeadline string     `json:"application_deadline"`
	Skills              []string   `json:"skills"`
}

type StatusUpdateRequest struct {
	ApplicationID FlexString `json:"application_id"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
}

type WithdrawRequest struct {
	ApplicationID FlexString `json:"application_id"`
}

type JobSeekerProfileRequest struct {
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Phone           string     `json:"phone"`
	Headline        string     `json:"headline"`
	Bio             string     `json:"bio"`
	Location        string     `json:"location"`
	ExpectedSalary  FlexString `json:"expected_salary"`
	ExperienceLevel string     `json:"experience_level"`
}

type EmployerProfileRequest struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Phone              string `json:"phone"`
	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
	Industry           string `json:"industry"`
	WebsiteURL         string `json:"website_url"`
	CompanySize        string `json:"company_size"`
	Location           string `json:"location"`
}

type UserStatusRequest struct {
	UserID   FlexString `json:"user_id"`
	IsActive FlexString `json:"is_active"`
}

type JobReviewRequest struct {
	JobID  FlexString `json:"job_id"`
	Reason string     `json:"reason"`
}

type NotificationRefRequest struct {
	NotificationID FlexString `json:"notification_id"`
}
