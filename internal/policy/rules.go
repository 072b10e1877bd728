package policy

import (
	"net/http"

	"workconnect/internal/model"
)

var (
	seeker   = []model.Role{model.RoleJobSeeker}
	employer = []model.Role{model.RoleEmployer}
	admin    = []model.Role{model.RoleAdmin}
	members  = []model.Role{model.RoleJobSeeker, model.RoleEmployer}
)

func public(resource string, method string, action string) Rule {
	return Rule{Resource: resource, Method: method, Action: action, Public: true}
}

func restricted(resource string, method string, action string, roles []model.Role) Rule {
	return Rule{Resource: resource, Method: method, Action: action, Roles: roles}
}

func asDefault(rule Rule) Rule {
	rule.Default = true
	return rule
}

// Default is the WorkConnect API access table.
func Default() *Table {
	return NewTable(
		asDefault(public("auth", http.MethodGet, "check")),
		public("auth", http.MethodPost, "login"),
		public("auth", http.MethodPost, "register"),
		restricted("auth", http.MethodPost, "logout", nil),
		public("auth", http.MethodPost, "forgot_password"),
		public("auth", http.MethodPost, "reset_password"),
		public("auth", http.MethodPost, "verify_email"),
		restricted("auth", http.MethodPost, "resend_verification", nil),

		asDefault(public("jobs", http.MethodGet, "search")),
		public("jobs", http.MethodGet, "featured"),
		public("jobs", http.MethodGet, "details"),
		public("jobs", http.MethodGet, "categories"),
		restricted("jobs", http.MethodGet, "employer_posted", employer),
		restricted("jobs", http.MethodGet, "saved", seeker),
		restricted("jobs", http.MethodPost, "apply", seeker),
		restricted("jobs", http.MethodPost, "save", seeker),
		restricted("jobs", http.MethodPost, "unsave", seeker),
		restricted("jobs", http.MethodPost, "post_job", employer),
		restricted("jobs", http.MethodPut, "close", employer),

		asDefault(restricted("applications", http.MethodGet, "mine", members)),
		restricted("applications", http.MethodGet, "my_applications", seeker),
		restricted("applications", http.MethodGet, "employer_applications", employer),
		restricted("applications", http.MethodGet, "history", members),
		asDefault(restricted("applications", http.MethodPut, "update_status", employer)),
		restricted("applications", http.MethodPut, "withdraw", seeker),

		asDefault(restricted("profiles", http.MethodGet, "me", members)),
		restricted("profiles", http.MethodGet, "job_seeker", seeker),
		restricted("profiles", http.MethodGet, "employer", employer),
		asDefault(restricted("profiles", http.MethodPost, "save", members)),
		restricted("profiles", http.MethodPost, "job_seeker", seeker),
		restricted("profiles", http.MethodPost, "employer", employer),
		asDefault(restricted("profiles", http.MethodPut, "save", members)),
		restricted("profiles", http.MethodPut, "job_seeker", seeker),
		restricted("profiles", http.MethodPut, "employer", employer),

		restricted("upload", http.MethodPost, "upload_profile_picture", []model.Role{model.RoleJobSeeker, model.RoleEmployer, model.RoleAdmin}),
		restricted("upload", http.MethodPost, "upload_company_logo", employer),

		restricted("admin", http.MethodGet, "users", admin),
		restricted("admin", http.MethodGet, "pending_jobs", admin),
		asDefault(restricted("admin", http.MethodGet, "stats", admin)),
		restricted("admin", http.MethodGet, "db_stats", admin),
		restricted("admin", http.MethodPut, "set_user_status", admin),
		restricted("admin", http.MethodPut, "approve_job", admin),
		restricted("admin", http.MethodPut, "reject_job", admin),

		asDefault(restricted("dashboard", http.MethodGet, "stats", nil)),
		restricted("dashboard", http.MethodGet, "activities", nil),

		asDefault(restricted("notifications", http.MethodGet, "list", nil)),
		restricted("notifications", http.MethodPut, "mark_read", nil),
		restricted("notifications", http.MethodPut, "mark_all_read", nil),
	)
}
