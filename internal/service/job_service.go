package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"workconnect/internal/model"
	"workconnect/internal/validate"
	"workconnect/pkg/apierror"
)

const featuredDefault = 10

type JobStore interface {
	Search(ctx context.Context, filter model.JobFilter, now time.Time) ([]model.Job, int, error)
	Featured(ctx context.Context, limit int, now time.Time) ([]model.Job, error)
	FindByID(ctx context.Context, id int64) (model.Job, error)
	EmployerUserID(ctx context.Context, jobID int64) (int64, error)
	Categories(ctx context.Context, now time.Time) ([]model.Category, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	ByEmployer(ctx context.Context, employerUserID int64) ([]model.Job, error)
	Saved(ctx context.Context, seekerUserID int64) ([]model.Job, error)
	Save(ctx context.Context, seekerUserID int64, jobID int64) error
	Unsave(ctx context.Context, seekerUserID int64, jobID int64) error
	Create(ctx context.Context, nj model.NewJob) (int64, error)
	Close(ctx context.Context, employerUserID int64, jobID int64) error
}

type JobService struct {
	jobs JobStore
	now  func() time.Time
}

func NewJobService(jobs JobStore) *JobService {
	return &JobService{jobs: jobs, now: time.Now}
}

func (s *JobService) Search(ctx context.Context, filter model.JobFilter) (model.Page[model.Job], error) {
	filter.Page, filter.Limit = pageBounds(filter.Page, filter.Limit)
	if filter.JobType != "" && !slices.Contains(model.JobTypes, filter.JobType) {
		return model.Page[model.Job]{}, apierror.FieldError("job_type", "Job type has an invalid value")
	}

	jobs, total, err := s.jobs.Search(ctx, filter, s.now())
	if err != nil {
		return model.Page[model.Job]{}, err
	}
	return model.Page[model.Job]{Items: jobs, Meta: model.NewMeta(filter.Page, filter.Limit, total)}, nil
}

func (s *JobService) Featured(ctx context.Context, limit int) ([]model.Job, error) {
	return s.jobs.Featured(ctx, clampLimit(limit, featuredDefault, maxPageSize), s.now())
}

// Details shows published jobs to everyone; other statuses only to the
// owning employer and admins.
func (s *JobService) Details(ctx context.Context, jobID int64, viewerID int64, viewerRole model.Role) (model.Job, error) {
	if jobID <= 0 {
		return model.Job{}, apierror.FieldError("id", "Job id is required")
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return model.Job{}, err
	}
	if job.Status == model.JobStatusPublished || viewerRole == model.RoleAdmin {
		return job, nil
	}

	if viewerRole == model.RoleEmployer {
		owner, err := s.jobs.EmployerUserID(ctx, jobID)
		if err != nil {
			return model.Job{}, err
		}
		if owner == viewerID {
			return job, nil
		}
	}
	return model.Job{}, model.ErrJobNotFound
}

func (s *JobService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.jobs.Categories(ctx, s.now())
}

func (s *JobService) EmployerJobs(ctx context.Context, employerUserID int64) ([]model.Job, error) {
	return s.jobs.ByEmployer(ctx, employerUserID)
}

func (s *JobService) SavedJobs(ctx context.Context, seekerUserID int64) ([]model.Job, error) {
	return s.jobs.Saved(ctx, seekerUserID)
}

func jobRef(req model.JobRefRequest) (int64, error) {
	id := req.JobID.Int64()
	if id <= 0 {
		return 0, apierror.FieldError("job_id", "Job id is required")
	}
	return id, nil
}

func (s *JobService) SaveJob(ctx context.Context, seekerUserID int64, req model.JobRefRequest) error {
	jobID, err := jobRef(req)
	if err != nil {
		return err
	}
	return s.jobs.Save(ctx, seekerUserID, jobID)
}

func (s *JobService) UnsaveJob(ctx context.Context, seekerUserID int64, req model.JobRefRequest) error {
	jobID, err := jobRef(req)
	if err != nil {
		return err
	}
	return s.jobs.Unsave(ctx, seekerUserID, jobID)
}

func (s *JobService) CloseJob(ctx context.Context, employerUserID int64, req model.JobRefRequest) error {
	jobID, err := jobRef(req)
	if err != nil {
		return err
	}
	return s.jobs.Close(ctx, employerUserID, jobID)
}

func (s *JobService) postJobRules() []validate.FieldRules {
	today := s.now().Format(dateLayout)
	return []validate.FieldRules{
		validate.Field("category_id", validate.Required().WithMessage("Category is required"), validate.Numeric()),
		validate.Field("job_title", validate.Required(), validate.MinLength(5), validate.MaxLength(200)),
		validate.Field("job_description", validate.Required(), validate.MinLength(20)),
		validate.Field("requirements", validate.MaxLength(5000)),
		validate.Field("job_type", validate.Required(), validate.OneOf(model.JobTypes...)),
		validate.Field("experience_level", validate.OneOf(model.ExperienceLevels...)),
		validate.Field("location", validate.Required(), validate.MaxLength(100)),
		validate.Field("salary_min", validate.Numeric()),
		validate.Field("salary_max", validate.Numeric()),
		validate.Field("application_deadline", validate.DateFormat(dateLayout),
			validate.Custom(func(v string) bool { return strings.TrimSpace(v) >= today }, "Application deadline must not be in the past")),
	}
}

// PostJob stores a job as pending; it becomes visible once an admin approves it.
func (s *JobService) PostJob(ctx context.Context, employerUserID int64, req model.PostJobRequest) (model.Job, error) {
	in := validate.Input{
		"category_id":          req.CategoryID.String(),
		"job_title":            strings.TrimSpace(req.Title),
		"job_description":      strings.TrimSpace(req.Description),
		"requirements":         req.Requirements,
		"job_type":             req.JobType,
		"experience_level":     req.ExperienceLevel,
		"location":             strings.TrimSpace(req.Location),
		"salary_min":           req.SalaryMin.String(),
		"salary_max":           req.SalaryMax.String(),
		"application_deadline": req.ApplicationDeadline,
	}
	errs := validate.Check(in, s.postJobRules()...)

	salaryMin, salaryMax := req.SalaryMin.Float(), req.SalaryMax.Float()
	if _, failed := errs["salary_max"]; !failed && salaryMin != nil && salaryMax != nil && *salaryMax < *salaryMin {
		errs["salary_max"] = "Maximum salary must be greater than or equal to minimum salary"
	}

	skills := make([]model.JobSkill, 0, len(req.Skills))
	for _, raw := range req.Skills {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if len([]rune(name)) > 100 {
			errs["skills"] = "Skill names must not exceed 100 characters"
			break
		}
		skills = append(skills, model.JobSkill{Name: name, Importance: "required"})
	}

	if errs.Fails() {
		return model.Job{}, errs.Err()
	}

	categoryID := req.CategoryID.Int64()
	exists, err := s.jobs.CategoryExists(ctx, categoryID)
	if err != nil {
		return model.Job{}, err
	}
	if !exists {
		return model.Job{}, apierror.FieldError("category_id", "Selected category does not exist")
	}

	jobID, err := s.jobs.Create(ctx, model.NewJob{
		EmployerUserID:      employerUserID,
		CategoryID:          categoryID,
		Title:               in["job_title"],
		Description:         in["job_description"],
		Requirements:        strings.TrimSpace(req.Requirements),
		SalaryMin:           salaryMin,
		SalaryMax:           salaryMax,
		JobType:             req.JobType,
		ExperienceLevel:     req.ExperienceLevel,
		Location:            in["location"],
		ApplicationDeadline: parseDate(req.ApplicationDeadline),
		Skills:              skills,
	})
	if errors.Is(err, model.ErrCategoryNotFound) {
		return model.Job{}, apierror.FieldError("category_id", "Selected category does not exist")
	}
	if err != nil {
		return model.Job{}, err
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return model.Job{}, fmt.Errorf("reload posted job: %w", err)
	}
	return job, nil
}
