package model

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusPublished JobStatus = "published"
	JobStatusRejected  JobStatus = "rejected"
	JobStatusClosed    JobStatus = "closed"
)

var JobTypes = []string{"full_time", "part_time", "contract", "internship", "freelance"}

var ExperienceLevels = []string{"entry", "mid", "senior", "executive"}

type Job struct {
	ID                  int64      `json:"job_id"`
	EmployerID          int64      `json:"employer_id"`
	CategoryID          int64      `json:"category_id"`
	CategoryName        string     `json:"category_name"`
	CompanyName         string     `json:"company_name"`
	CompanyDescription  string     `json:"company_description,omitempty"`
	CompanyLogo         string     `json:"company_logo,omitempty"`
	WebsiteURL          string     `json:"website_url,omitempty"`
	Title               string     `json:"job_title"`
	Description         string     `json:"job_description"`
	Requirements        string     `json:"requirements"`
	SalaryMin           *float64   `json:"salary_min"`
	SalaryMax           *float64   `json:"salary_max"`
	JobType             string     `json:"job_type"`
	ExperienceLevel     string     `json:"experience_level"`
	Location            string     `json:"location"`
	Status              JobStatus  `json:"status"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	ApplicationsCount   int        `json:"applications_count"`
	IsFeatured          bool       `json:"is_featured"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Skills              []JobSkill `json:"skills,omitempty"`
}

// Open reports whether the job currently accepts applications.
func (j Job) Open(now time.Time) bool {
	if j.Status != JobStatusPublished {
		return false
	}
	if j.ApplicationDeadline == nil {
		return true
	}
	deadline := j.ApplicationDeadline.Truncate(24 * time.Hour).Add(24 * time.Hour)
	return now.Before(deadline)
}

type JobSkill struct {
	Name       string `json:"skill_name"`
	Importance string `json:"importance_level"`
}

type Category struct {
	ID       int64  `json:"category_id"`
	Name     string `json:"category_name"`
	JobCount int    `json:"job_count"`
}

type JobFilter struct {
	Keyword    string
	Location   string
	JobType    string
	CategoryID int64
	SalaryMin  float64
	Page       int
	Limit      int
}

type NewJob struct {
	EmployerUserID      int64
	CategoryID          int64
	Title               string
	Description         string
	Requirements        string
	SalaryMin           *float64
	SalaryMax           *float64
	JobType             string
	ExperienceLevel     string
	Location            string
	ApplicationDeadline *time.Time
	Skills              []JobSkill
}

// JobReview identifies the employer behind a reviewed job.
type JobReview struct {
	JobID          int64
	Title          string
	EmployerUserID int64
}
