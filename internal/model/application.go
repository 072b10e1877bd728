package model

import "time"

type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusInterview   ApplicationStatus = "interview"
	StatusRejected    ApplicationStatus = "rejected"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusWithdrawn   ApplicationStatus = "withdrawn"
)

var ApplicationStatuses = []ApplicationStatus{
	StatusSubmitted,
	StatusUnderReview,
	StatusShortlisted,
	StatusInterview,
	StatusRejected,
	StatusAccepted,
	StatusWithdrawn,
}

// employerTransitions is the review graph. Withdrawal is handled separately
// because only the applicant may do it.
var employerTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusSubmitted:   {StatusUnderReview},
	StatusUnderReview: {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusInterview, StatusRejected},
	StatusInterview:   {StatusAccepted, StatusRejected},
}

func (s ApplicationStatus) Valid() bool {
	for _, status := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) Terminal() bool {
	return s == StatusRejected || s == StatusAccepted || s == StatusWithdrawn
}

// CanTransition reports whether actor may move an application from s to next.
func (s ApplicationStatus) CanTransition(next ApplicationStatus, actor Role) bool {
	if s.Terminal() {
		return false
	}

	switch actor {
	case RoleJobSeeker:
		return next == StatusWithdrawn
	case RoleEmployer:
		for _, allowed := range employerTransitions[s] {
			if allowed == next {
				return true
			}
		}
	}

	return false
}

// NextStatuses lists what an employer can move s to.
func (s ApplicationStatus) NextStatuses() []ApplicationStatus {
	next := employerTransitions[s]
	out := make([]ApplicationStatus, len(next))
	copy(out, next)
	return out
}

type Application struct {
	ID               int64             `json:"application_id"`
	JobID            int64             `json:"job_id"`
	JobSeekerID      int64             `json:"job_seeker_id"`
	JobTitle         string            `json:"job_title"`
	CompanyName      string            `json:"company_name"`
	Location         string            `json:"location"`
	ApplicantName    string            `json:"applicant_name,omitempty"`
	ApplicantEmail   string            `json:"applicant_email,omitempty"`
	CoverLetter      string            `json:"cover_letter"`
	ExpectedSalary   *float64          `json:"expected_salary"`
	AvailabilityDate *time.Time        `json:"availability_date"`
	Status           ApplicationStatus `json:"status"`
	StatusNotes      string            `json:"status_notes"`
	AppliedAt        time.Time         `json:"applied_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	// NextStatuses is only filled for the employer reviewing the application.
	NextStatuses []ApplicationStatus `json:"next_statuses,omitempty"`
}

type StatusChange struct {
	ID            int64              `json:"history_id"`
	ApplicationID int64              `json:"application_id"`
	OldStatus     *ApplicationStatus `json:"old_status"`
	NewStatus     ApplicationStatus  `json:"new_status"`
	Notes         string             `json:"change_notes"`
	ChangedBy     int64              `json:"changed_by_user_id"`
	ChangedByName string             `json:"changed_by_name"`
	ChangedAt     time.Time          `json:"changed_at"`
}

type NewApplication struct {
	JobID            int64
	JobSeekerUserID  int64
	CoverLetter      string
	ExpectedSalary   *float64
	AvailabilityDate *time.Time
}

// ApplicationParties identifies who is on each side of an application.
type ApplicationParties struct {
	ApplicationID   int64
	Status          ApplicationStatus
	JobID           int64
	JobTitle        string
	ApplicantUserID int64
	EmployerUserID  int64
}

type ApplicationFilter struct {
	JobID  int64
	Status ApplicationStatus
}
