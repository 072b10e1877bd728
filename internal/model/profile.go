package model

type JobSeekerProfile struct {
	JobSeekerID     int64    `json:"job_seeker_id"`
	UserID          int64    `json:"user_id"`
	Email           string   `json:"email"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Phone           string   `json:"phone"`
	ProfilePicture  string   `json:"profile_picture"`
	Headline        string   `json:"headline"`
	Bio             string   `json:"bio"`
	Location        string   `json:"location"`
	ExpectedSalary  *float64 `json:"expected_salary"`
	ExperienceLevel string   `json:"experience_level"`
}

type EmployerProfile struct {
	EmployerID         int64  `json:"employer_id"`
	UserID             int64  `json:"user_id"`
	Email              string `json:"email"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Phone              string `json:"phone"`
	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
	Industry           string `json:"industry"`
	WebsiteURL         string `json:"website_url"`
	CompanyLogo        string `json:"company_logo"`
	CompanySize        string `json:"company_size"`
	Location           string `json:"location"`
}

var CompanySizes = []string{"1-10", "11-50", "51-200", "201-500", "500+"}
