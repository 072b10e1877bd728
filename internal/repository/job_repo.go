package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workconnect/internal/model"
)

const jobColumns = `j.job_id, j.employer_id, j.category_id, c.category_name, e.company_name,
	COALESCE(e.company_description, ''), COALESCE(e.company_logo, ''), COALESCE(e.website_url, ''),
	j.job_title, j.job_description, COALESCE(j.requirements, ''), j.salary_min::float8, j.salary_max::float8,
	j.job_type, COALESCE(j.experience_level, ''), j.location, j.status, j.application_deadline,
	j.applications_count, j.is_featured, j.created_at, j.updated_at`

const jobFrom = ` FROM jobs j
	JOIN employers e ON e.employer_id = j.employer_id
	JOIN job_categories c ON c.category_id = j.category_id`

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func scanJob(row rowScanner) (model.Job, error) {
	var j model.Job
	err := row.Scan(&j.ID, &j.EmployerID, &j.CategoryID, &j.CategoryName, &j.CompanyName,
		&j.CompanyDescription, &j.CompanyLogo, &j.WebsiteURL,
		&j.Title, &j.Description, &j.Requirements, &j.SalaryMin, &j.SalaryMax,
		&j.JobType, &j.ExperienceLevel, &j.Location, &j.Status, &j.ApplicationDeadline,
		&j.ApplicationsCount, &j.IsFeatured, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

func (r *JobRepository) queryJobs(ctx context.Context, sql string, args ...any) ([]model.Job, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func openJobConditions(now time.Time) *conditions {
	c := &conditions{}
	c.add("j.status = 'published'")
	c.add("(j.application_deadline IS NULL OR j.application_deadline >= " + c.arg(now) + "::date)")
	return c
}

// Search lists published jobs that still accept applications, newest first.
func (r *JobRepository) Search(ctx context.Context, filter model.JobFilter, now time.Time) ([]model.Job, int, error) {
	c := openJobConditions(now)
	if strings.TrimSpace(filter.Keyword) != "" {
		p := c.arg(likePattern(filter.Keyword))
		c.add("(j.job_title ILIKE " + p + " OR j.job_description ILIKE " + p + " OR e.company_name ILIKE " + p + ")")
	}
	if strings.TrimSpace(filter.Location) != "" {
		c.add("j.location ILIKE " + c.arg(likePattern(filter.Location)))
	}
	if filter.JobType != "" {
		c.add("j.job_type = " + c.arg(filter.JobType))
	}
	if filter.CategoryID > 0 {
		c.add("j.category_id = " + c.arg(filter.CategoryID))
	}
	if filter.SalaryMin > 0 {
		c.add("COALESCE(j.salary_max, j.salary_min) >= " + c.arg(filter.SalaryMin))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+jobFrom+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	limit := c.arg(filter.Limit)
	skip := c.arg(offset(filter.Page, filter.Limit))
	jobs, err := r.queryJobs(ctx,
		`SELECT `+jobColumns+jobFrom+c.where()+
			` ORDER BY j.created_at DESC, j.job_id DESC LIMIT `+limit+` OFFSET `+skip, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search jobs: %w", err)
	}
	return jobs, total, nil
}

func (r *JobRepository) Featured(ctx context.Context, limit int, now time.Time) ([]model.Job, error) {
	c := openJobConditions(now)
	jobs, err := r.queryJobs(ctx,
		`SELECT `+jobColumns+jobFrom+c.where()+
			` ORDER BY j.is_featured DESC, j.applications_count DESC, j.created_at DESC LIMIT `+c.arg(limit), c.args...)
	if err != nil {
		return nil, fmt.Errorf("featured jobs: %w", err)
	}
	return jobs, nil
}

// FindByID loads a job in any status together with its skills.
func (r *JobRepository) FindByID(ctx context.Context, id int64) (model.Job, error) {
	j, err := scanJob(r.pool.QueryRow(ctx, `SELECT `+jobColumns+jobFrom+` WHERE j.job_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Job{}, model.ErrJobNotFound
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("find job: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT skill_name, importance_level FROM job_skills WHERE job_id = $1 ORDER BY skill_name`, id)
	if err != nil {
		return model.Job{}, fmt.Errorf("list job skills: %w", err)
	}
	defer rows.Close()

	j.Skills = make([]model.JobSkill, 0)
	for rows.Next() {
		var s model.JobSkill
		if err := rows.Scan(&s.Name, &s.Importance); err != nil {
			return model.Job{}, fmt.Errorf("scan job skill: %w", err)
		}
		j.Skills = append(j.Skills, s)
	}
	return j, rows.Err()
}

// EmployerUserID returns the user who owns the job.
func (r *JobRepository) EmployerUserID(ctx context.Context, jobID int64) (int64, error) {
	var userID int64
	err := r.pool.QueryRow(ctx,
		`SELECT e.user_id FROM jobs j JOIN employers e ON e.employer_id = j.employer_id WHERE j.job_id = $1`,
		jobID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, model.ErrJobNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("find job owner: %w", err)
	}
	return userID, nil
}

func (r *JobRepository) Categories(ctx context.Context, now time.Time) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.category_id, c.category_name,
		        COUNT(j.job_id) FILTER (WHERE j.status = 'published'
		          AND (j.application_deadline IS NULL OR j.application_deadline >= $1::date))
		 FROM job_categories c
		 LEFT JOIN jobs j ON j.category_id = c.category_id
		 WHERE c.is_active
		 GROUP BY c.category_id, c.category_name
		 ORDER BY c.category_name`, now)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.JobCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *JobRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM job_categories WHERE category_id = $1 AND is_active)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return exists, nil
}

// ByEmployer lists every job the employer user posted, in any status.
func (r *JobRepository) ByEmployer(ctx context.Context, employerUserID int64) ([]model.Job, error) {
	jobs, err := r.queryJobs(ctx,
		`SELECT `+jobColumns+jobFrom+` WHERE e.user_id = $1 ORDER BY j.created_at DESC`, employerUserID)
	if err != nil {
		return nil, fmt.Errorf("list employer jobs: %w", err)
	}
	return jobs, nil
}

func (r *JobRepository) Pending(ctx context.Context) ([]model.Job, error) {
	jobs, err := r.queryJobs(ctx,
		`SELECT `+jobColumns+jobFrom+` WHERE j.status = 'pending' ORDER BY j.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list pending jobs: %w", err)
	}
	return jobs, nil
}

func (r *JobRepository) Saved(ctx context.Context, seekerUserID int64) ([]model.Job, error) {
	jobs, err := r.queryJobs(ctx,
		`SELECT `+jobColumns+jobFrom+`
		 JOIN saved_jobs s ON s.job_id = j.job_id
		 JOIN job_seekers js ON js.job_seeker_id = s.job_seeker_id
		 WHERE js.user_id = $1
		 ORDER BY s.saved_at DESC`, seekerUserID)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	return jobs, nil
}

// Save bookmarks a job; saving twice is a no-op.
func (r *JobRepository) Save(ctx context.Context, seekerUserID int64, jobID int64) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO saved_jobs (job_seeker_id, job_id)
		 SELECT job_seeker_id, $2 FROM job_seekers WHERE user_id = $1
		 ON CONFLICT DO NOTHING`, seekerUserID, jobID)
	if isForeignKeyViolation(err) {
		return model.ErrJobNotFound
	}
	if err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var hasProfile bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM job_seekers WHERE user_id = $1)`, seekerUserID).Scan(&hasProfile); err != nil {
			return fmt.Errorf("check job seeker profile: %w", err)
		}
		if !hasProfile {
			return model.ErrProfileNotFound
		}
	}
	return nil
}

func (r *JobRepository) Unsave(ctx context.Context, seekerUserID int64, jobID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM saved_jobs s USING job_seekers js
		 WHERE s.job_seeker_id = js.job_seeker_id AND js.user_id = $1 AND s.job_id = $2`,
		seekerUserID, jobID)
	if err != nil {
		return fmt.Errorf("unsave job: %w", err)
	}
	return nil
}

// Create inserts a pending job and its skills for the employer user.
func (r *JobRepository) Create(ctx context.Context, nj model.NewJob) (int64, error) {
	var jobID int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO jobs (employer_id, category_id, job_title, job_description, requirements,
			   salary_min, salary_max, job_type, experience_level, location, application_deadline)
			 SELECT employer_id, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, NULLIF($9, ''), $10, $11
			 FROM employers WHERE user_id = $1
			 RETURNING job_id`,
			nj.EmployerUserID, nj.CategoryID, nj.Title, nj.Description, nj.Requirements,
			nj.SalaryMin, nj.SalaryMax, nj.JobType, nj.ExperienceLevel, nj.Location, nj.ApplicationDeadline).
			Scan(&jobID)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProfileNotFound
		}
		if err != nil {
			return err
		}

		for _, skill := range nj.Skills {
			if _, err := tx.Exec(ctx,
				`INSERT INTO job_skills (job_id, skill_name, importance_level) VALUES ($1, $2, $3)
				 ON CONFLICT DO NOTHING`, jobID, skill.Name, skill.Importance); err != nil {
				return err
			}
		}
		return nil
	})
	if isForeignKeyViolation(err) {
		return 0, model.ErrCategoryNotFound
	}
	if errors.Is(err, model.ErrProfileNotFound) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("create job: %w", err)
	}
	return jobID, nil
}

// Close marks one of the employer's open or pending jobs closed.
func (r *JobRepository) Close(ctx context.Context, employerUserID int64, jobID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE jobs j SET status = 'closed', updated_at = now()
		 FROM employers e
		 WHERE e.employer_id = j.employer_id AND e.user_id = $1 AND j.job_id = $2
		   AND j.status IN ('pending', 'published')`, employerUserID, jobID)
	if err != nil {
		return fmt.Errorf("close job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrJobNotFound
	}
	return nil
}

// Review moves a pending job to status and records the reviewer.
func (r *JobRepository) Review(ctx context.Context, jobID int64, reviewerID int64, status model.JobStatus, notes string) (model.JobReview, error) {
	review := model.JobReview{JobID: jobID}
	err := r.pool.QueryRow(ctx,
		`UPDATE jobs j SET status = $2, reviewed_by = $3, reviewed_at = now(),
		        review_notes = NULLIF($4, ''), updated_at = now()
		 FROM employers e
		 WHERE e.employer_id = j.employer_id AND j.job_id = $1 AND j.status = 'pending'
		 RETURNING j.job_title, e.user_id`, jobID, status, reviewerID, notes).
		Scan(&review.Title, &review.EmployerUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.JobReview{}, model.ErrJobNotFound
	}
	if err != nil {
		return model.JobReview{}, fmt.Errorf("review job: %w", err)
	}
	return review, nil
}
