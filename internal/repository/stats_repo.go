package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"workconnect/internal/model"
)

// StatsRepository answers dashboard and admin counters.
type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func (r *StatsRepository) SeekerStats(ctx context.Context, userID int64) (map[string]int, error) {
	var total, active, accepted, saved int
	err := r.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM applications a JOIN job_seekers js ON js.job_seeker_id = a.job_seeker_id
		     WHERE js.user_id = $1),
		   (SELECT COUNT(*) FROM applications a JOIN job_seekers js ON js.job_seeker_id = a.job_seeker_id
		     WHERE js.user_id = $1 AND a.status IN ('submitted', 'under_review', 'shortlisted', 'interview')),
		   (SELECT COUNT(*) FROM applications a JOIN job_seekers js ON js.job_seeker_id = a.job_seeker_id
		     WHERE js.user_id = $1 AND a.status = 'accepted'),
		   (SELECT COUNT(*) FROM saved_jobs s JOIN job_seekers js ON js.job_seeker_id = s.job_seeker_id
		     WHERE js.user_id = $1)`, userID).
		Scan(&total, &active, &accepted, &saved)
	if err != nil {
		return nil, fmt.Errorf("seeker stats: %w", err)
	}
	return map[string]int{
		"total_applications":    total,
		"active_applications":   active,
		"accepted_applications": accepted,
		"saved_jobs":            saved,
	}, nil
}

func (r *StatsRepository) EmployerStats(ctx context.Context, userID int64) (map[string]int, error) {
	var total, published, pending, received int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE j.status = 'published'),
		        COUNT(*) FILTER (WHERE j.status = 'pending'),
		        COALESCE(SUM(j.applications_count), 0)
		 FROM jobs j JOIN employers e ON e.employer_id = j.employer_id
		 WHERE e.user_id = $1`, userID).
		Scan(&total, &published, &pending, &received)
	if err != nil {
		return nil, fmt.Errorf("employer stats: %w", err)
	}
	return map[string]int{
		"total_jobs":            total,
		"published_jobs":        published,
		"pending_jobs":          pending,
		"applications_received": received,
	}, nil
}

func (r *StatsRepository) countBy(ctx context.Context, sql string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

func (r *StatsRepository) Platform(ctx context.Context) (model.PlatformStats, error) {
	var stats model.PlatformStats
	var err error

	if stats.UsersByRole, err = r.countBy(ctx, `SELECT user_type, COUNT(*) FROM users GROUP BY user_type`); err != nil {
		return model.PlatformStats{}, fmt.Errorf("count users by role: %w", err)
	}
	if stats.JobsByStatus, err = r.countBy(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`); err != nil {
		return model.PlatformStats{}, fmt.Errorf("count jobs by status: %w", err)
	}
	if stats.ApplicationsByStatus, err = r.countBy(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`); err != nil {
		return model.PlatformStats{}, fmt.Errorf("count applications by status: %w", err)
	}
	return stats, nil
}

// Activities returns the most recent events relevant to the user's role.
func (r *StatsRepository) Activities(ctx context.Context, userID int64, role model.Role, limit int) ([]model.Activity, error) {
	var sql string
	args := []any{userID, limit}
	switch role {
	case model.RoleJobSeeker:
		sql = `SELECT h.changed_at,
		              CASE WHEN h.old_status IS NULL THEN 'Applied for ' || j.job_title
		                   ELSE 'Application for ' || j.job_title || ' moved to ' || h.new_status END,
		              'application'
		       FROM application_status_history h
		       JOIN applications a ON a.application_id = h.application_id
		       JOIN jobs j ON j.job_id = a.job_id
		       JOIN job_seekers js ON js.job_seeker_id = a.job_seeker_id
		       WHERE js.user_id = $1
		       ORDER BY h.changed_at DESC LIMIT $2`
	case model.RoleEmployer:
		sql = `SELECT activity_date, description, activity_type FROM (
		         SELECT a.applied_at AS activity_date,
		                u.first_name || ' ' || u.last_name || ' applied for ' || j.job_title AS description,
		                'application' AS activity_type
		         FROM applications a
		         JOIN jobs j ON j.job_id = a.job_id
		         JOIN employers e ON e.employer_id = j.employer_id
		         JOIN job_seekers js ON js.job_seeker_id = a.job_seeker_id
		         JOIN users u ON u.user_id = js.user_id
		         WHERE e.user_id = $1
		         UNION ALL
		         SELECT j.created_at, 'Posted ' || j.job_title, 'job'
		         FROM jobs j JOIN employers e ON e.employer_id = j.employer_id
		         WHERE e.user_id = $1
		       ) feed
		       ORDER BY activity_date DESC LIMIT $2`
	default:
		sql = `SELECT activity_date, description, activity_type FROM (
		         SELECT created_at AS activity_date,
		                'New ' || replace(user_type, '_', ' ') || ' ' || email AS description,
		                'user' AS activity_type
		         FROM users
		         UNION ALL
		         SELECT created_at, 'Job posted: ' || job_title, 'job' FROM jobs
		       ) feed
		       ORDER BY activity_date DESC LIMIT $1`
		args = []any{limit}
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.Date, &a.Description, &a.Type); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
