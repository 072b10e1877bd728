package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workconnect/internal/model"
)

const applicationColumns = `a.application_id, a.job_id, a.job_seeker_id, j.job_title, e.company_name, j.location,
	u.first_name || ' ' || u.last_name, u.email, COALESCE(a.cover_letter, ''), a.expected_salary::float8,
	a.availability_date, a.status, COALESCE(a.status_notes, ''), a.applied_at, a.updated_at`

const applicationFrom = ` FROM applications a
	JOIN jobs j ON j.job_id = a.job_id
	JOIN employers e ON e.employer_id = j.employer_id
	JOIN job_seekers js ON js.job_seeker_id = a.job_seeker_id
	JOIN users u ON u.user_id = js.user_id`

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func scanApplication(row rowScanner) (model.Application, error) {
	var a model.Application
	err := row.Scan(&a.ID, &a.JobID, &a.JobSeekerID, &a.JobTitle, &a.CompanyName, &a.Location,
		&a.ApplicantName, &a.ApplicantEmail, &a.CoverLetter, &a.ExpectedSalary,
		&a.AvailabilityDate, &a.Status, &a.StatusNotes, &a.AppliedAt, &a.UpdatedAt)
	return a, err
}

func (r *ApplicationRepository) list(ctx context.Context, sql string, args ...any) ([]model.Application, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]model.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// Apply files an application in one transaction: the job row is locked and
// must be open, the first history entry is written and the job's counter bumped.
func (r *ApplicationRepository) Apply(ctx context.Context, na model.NewApplication, now time.Time) (model.ApplicationParties, error) {
	parties := model.ApplicationParties{JobID: na.JobID, ApplicantUserID: na.JobSeekerUserID, Status: model.StatusSubmitted}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var seekerID int64
		err := tx.QueryRow(ctx, `SELECT job_seeker_id FROM job_seekers WHERE user_id = $1`, na.JobSeekerUserID).
			Scan(&seekerID)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProfileNotFound
		}
		if err != nil {
			return err
		}

		var job model.Job
		err = tx.QueryRow(ctx,
			`SELECT j.job_title, j.status, j.application_deadline, e.user_id
			 FROM jobs j JOIN employers e ON e.employer_id = j.employer_id
			 WHERE j.job_id = $1 FOR UPDATE OF j`, na.JobID).
			Scan(&job.Title, &job.Status, &job.ApplicationDeadline, &parties.EmployerUserID)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrJobNotFound
		}
		if err != nil {
			return err
		}
		if !job.Open(now) {
			return model.ErrJobNotOpen
		}
		parties.JobTitle = job.Title

		err = tx.QueryRow(ctx,
			`INSERT INTO applications (job_id, job_seeker_id, cover_letter, expected_salary, availability_date)
			 VALUES ($1, $2, NULLIF($3, ''), $4, $5)
			 ON CONFLICT (job_id, job_seeker_id) DO NOTHING
			 RETURNING application_id`,
			na.JobID, seekerID, na.CoverLetter, na.ExpectedSalary, na.AvailabilityDate).Scan(&parties.ApplicationID)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrAlreadyApplied
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO application_status_history (application_id, old_status, new_status, changed_by_user_id)
			 VALUES ($1, NULL, 'submitted', $2)`, parties.ApplicationID, na.JobSeekerUserID); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE jobs SET applications_count = applications_count + 1 WHERE job_id = $1`, na.JobID)
		return err
	})
	if err != nil {
		if isDomainError(err) {
			return model.ApplicationParties{}, err
		}
		return model.ApplicationParties{}, fmt.Errorf("apply: %w", err)
	}
	return parties, nil
}

// Transition locks the application and runs check against its parties inside
// the transaction. When check passes, the new status and a history row are stored.
func (r *ApplicationRepository) Transition(ctx context.Context, applicationID int64, actorUserID int64, next model.ApplicationStatus, notes string, check func(model.ApplicationParties) error) (model.ApplicationParties, error) {
	var parties model.ApplicationParties
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT a.application_id, a.status, j.job_id, j.job_title, js.user_id, e.user_id
			 FROM applications a
			 JOIN jobs j ON j.job_id = a.job_id
			 JOIN employers e ON e.employer_id = j.employer_id
			 JOIN job_seekers js ON js.job_seeker_id = a.job_seeker_id
			 WHERE a.application_id = $1
			 FOR UPDATE OF a`, applicationID).
			Scan(&parties.ApplicationID, &parties.Status, &parties.JobID, &parties.JobTitle,
				&parties.ApplicantUserID, &parties.EmployerUserID)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrApplicationNotFound
		}
		if err != nil {
			return err
		}

		if err := check(parties); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE applications SET status = $2, status_notes = NULLIF($3, ''), updated_at = now()
			 WHERE application_id = $1`, applicationID, next, notes); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO application_status_history
			   (application_id, old_status, new_status, change_notes, changed_by_user_id)
			 VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
			applicationID, parties.Status, next, notes, actorUserID)
		return err
	})
	if err != nil {
		if isDomainError(err) {
			return model.ApplicationParties{}, err
		}
		return model.ApplicationParties{}, fmt.Errorf("transition application: %w", err)
	}

	parties.Status = next
	return parties, nil
}

// Parties loads who is on each side of an application.
func (r *ApplicationRepository) Parties(ctx context.Context, applicationID int64) (model.ApplicationParties, error) {
	var p model.ApplicationParties
	err := r.pool.QueryRow(ctx,
		`SELECT a.application_id, a.status, j.job_id, j.job_title, js.user_id, e.user_id
		 FROM applications a
		 JOIN jobs j ON j.job_id = a.job_id
		 JOIN employers e ON e.employer_id = j.employer_id
		 JOIN job_seekers js ON js.job_seeker_id = a.job_seeker_id
		 WHERE a.application_id = $1`, applicationID).
		Scan(&p.ApplicationID, &p.Status, &p.JobID, &p.JobTitle, &p.ApplicantUserID, &p.EmployerUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ApplicationParties{}, model.ErrApplicationNotFound
	}
	if err != nil {
		return model.ApplicationParties{}, fmt.Errorf("find application parties: %w", err)
	}
	return p, nil
}

func (r *ApplicationRepository) ForSeeker(ctx context.Context, seekerUserID int64) ([]model.Application, error) {
	apps, err := r.list(ctx,
		`SELECT `+applicationColumns+applicationFrom+` WHERE js.user_id = $1 ORDER BY a.applied_at DESC`,
		seekerUserID)
	if err != nil {
		return nil, fmt.Errorf("list seeker applications: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) ForEmployer(ctx context.Context, employerUserID int64, filter model.ApplicationFilter) ([]model.Application, error) {
	var c conditions
	c.add("e.user_id = " + c.arg(employerUserID))
	if filter.JobID > 0 {
		c.add("a.job_id = " + c.arg(filter.JobID))
	}
	if filter.Status != "" {
		c.add("a.status = " + c.arg(filter.Status))
	}

	apps, err := r.list(ctx,
		`SELECT `+applicationColumns+applicationFrom+c.where()+` ORDER BY a.applied_at DESC`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list employer applications: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) History(ctx context.Context, applicationID int64) ([]model.StatusChange, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT h.history_id, h.application_id, h.old_status, h.new_status, COALESCE(h.change_notes, ''),
		        COALESCE(h.changed_by_user_id, 0), COALESCE(u.first_name || ' ' || u.last_name, ''), h.changed_at
		 FROM application_status_history h
		 LEFT JOIN users u ON u.user_id = h.changed_by_user_id
		 WHERE h.application_id = $1
		 ORDER BY h.changed_at, h.history_id`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	history := make([]model.StatusChange, 0)
	for rows.Next() {
		var h model.StatusChange
		if err := rows.Scan(&h.ID, &h.ApplicationID, &h.OldStatus, &h.NewStatus, &h.Notes,
			&h.ChangedBy, &h.ChangedByName, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func isDomainError(err error) bool {
	for _, target := range []error{
		model.ErrProfileNotFound, model.ErrJobNotFound, model.ErrJobNotOpen, model.ErrAlreadyApplied,
		model.ErrApplicationNotFound, model.ErrInvalidTransition, model.ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
