package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workconnect/internal/model"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) JobSeeker(ctx context.Context, userID int64) (model.JobSeekerProfile, error) {
	var p model.JobSeekerProfile
	err := r.pool.QueryRow(ctx,
		`SELECT js.job_seeker_id, u.user_id, u.email, u.first_name, u.last_name, COALESCE(u.phone, ''),
		        COALESCE(u.profile_picture, ''), COALESCE(js.headline, ''), COALESCE(js.bio, ''),
		        COALESCE(js.location, ''), js.expected_salary::float8, COALESCE(js.experience_level, '')
		 FROM job_seekers js JOIN users u ON u.user_id = js.user_id
		 WHERE js.user_id = $1`, userID).
		Scan(&p.JobSeekerID, &p.UserID, &p.Email, &p.FirstName, &p.LastName, &p.Phone,
			&p.ProfilePicture, &p.Headline, &p.Bio, &p.Location, &p.ExpectedSalary, &p.ExperienceLevel)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.JobSeekerProfile{}, model.ErrProfileNotFound
	}
	if err != nil {
		return model.JobSeekerProfile{}, fmt.Errorf("find job seeker profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) Employer(ctx context.Context, userID int64) (model.EmployerProfile, error) {
	var p model.EmployerProfile
	err := r.pool.QueryRow(ctx,
		`SELECT e.employer_id, u.user_id, u.email, u.first_name, u.last_name, COALESCE(u.phone, ''),
		        e.company_name, COALESCE(e.company_description, ''), COALESCE(e.industry, ''),
		        COALESCE(e.website_url, ''), COALESCE(e.company_logo, ''), COALESCE(e.company_size, ''),
		        COALESCE(e.location, '')
		 FROM employers e JOIN users u ON u.user_id = e.user_id
		 WHERE e.user_id = $1`, userID).
		Scan(&p.EmployerID, &p.UserID, &p.Email, &p.FirstName, &p.LastName, &p.Phone,
			&p.CompanyName, &p.CompanyDescription, &p.Industry, &p.WebsiteURL, &p.CompanyLogo,
			&p.CompanySize, &p.Location)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.EmployerProfile{}, model.ErrProfileNotFound
	}
	if err != nil {
		return model.EmployerProfile{}, fmt.Errorf("find employer profile: %w", err)
	}
	return p, nil
}

func updateUserNames(ctx context.Context, tx pgx.Tx, userID int64, first string, last string, phone string) error {
	tag, err := tx.Exec(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, phone = NULLIF($4, ''), updated_at = now()
		 WHERE user_id = $1`, userID, first, last, phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// UpdateJobSeeker writes the user fields and profile row together.
func (r *ProfileRepository) UpdateJobSeeker(ctx context.Context, p model.JobSeekerProfile) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := updateUserNames(ctx, tx, p.UserID, p.FirstName, p.LastName, p.Phone); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`UPDATE job_seekers SET headline = NULLIF($2, ''), bio = NULLIF($3, ''), location = NULLIF($4, ''),
			        expected_salary = $5, experience_level = NULLIF($6, ''), updated_at = now()
			 WHERE user_id = $1`,
			p.UserID, p.Headline, p.Bio, p.Location, p.ExpectedSalary, p.ExperienceLevel)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrProfileNotFound
		}
		return nil
	})
	if errors.Is(err, model.ErrProfileNotFound) || errors.Is(err, model.ErrUserNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("update job seeker profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) UpdateEmployer(ctx context.Context, p model.EmployerProfile) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := updateUserNames(ctx, tx, p.UserID, p.FirstName, p.LastName, p.Phone); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`UPDATE employers SET company_name = $2, company_description = NULLIF($3, ''),
			        industry = NULLIF($4, ''), website_url = NULLIF($5, ''), company_size = NULLIF($6, ''),
			        location = NULLIF($7, ''), updated_at = now()
			 WHERE user_id = $1`,
			p.UserID, p.CompanyName, p.CompanyDescription, p.Industry, p.WebsiteURL, p.CompanySize, p.Location)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrProfileNotFound
		}
		return nil
	})
	if errors.Is(err, model.ErrProfileNotFound) || errors.Is(err, model.ErrUserNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("update employer profile: %w", err)
	}
	return nil
}

// SetCompanyLogo stores path on the employer row and returns the previous logo.
func (r *ProfileRepository) SetCompanyLogo(ctx context.Context, userID int64, path string) (string, error) {
	var previous string
	err := r.pool.QueryRow(ctx,
		`WITH old AS (SELECT employer_id, company_logo FROM employers WHERE user_id = $1 FOR UPDATE)
		 UPDATE employers e SET company_logo = $2, updated_at = now()
		 FROM old WHERE e.employer_id = old.employer_id
		 RETURNING COALESCE(old.company_logo, '')`, userID, path).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrProfileNotFound
	}
	if err != nil {
		return "", fmt.Errorf("set company logo: %w", err)
	}
	return previous, nil
}
