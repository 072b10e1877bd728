package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workconnect/internal/model"
)

const userColumns = `user_id, email, password_hash, first_name, last_name, COALESCE(phone, ''),
	user_type, COALESCE(profile_picture, ''), is_active, email_verified, last_login, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.Role, &u.ProfilePicture, &u.IsActive, &u.EmailVerified, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// CreateWithProfile inserts the user and its role profile row in one transaction.
func (r *UserRepository) CreateWithProfile(ctx context.Context, nu model.NewUser) (model.User, error) {
	var u model.User
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		u, err = scanUser(tx.QueryRow(ctx,
			`INSERT INTO users (email, password_hash, first_name, last_name, phone, user_type)
			 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
			 RETURNING `+userColumns,
			strings.TrimSpace(nu.Email), nu.PasswordHash, nu.FirstName, nu.LastName, nu.Phone, nu.Role))
		if err != nil {
			return err
		}

		switch nu.Role {
		case model.RoleJobSeeker:
			_, err = tx.Exec(ctx, `INSERT INTO job_seekers (user_id) VALUES ($1)`, u.ID)
		case model.RoleEmployer:
			_, err = tx.Exec(ctx,
				`INSERT INTO employers (user_id, company_name) VALUES ($1, $2)`, u.ID, nu.CompanyName)
		}
		return err
	})
	if isUniqueViolation(err) {
		return model.User{}, model.ErrEmailTaken
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// EnsureAdmin creates an admin account or promotes and resets an existing one.
func (r *UserRepository) EnsureAdmin(ctx context.Context, nu model.NewUser) (model.User, bool, error) {
	var (
		u       model.User
		created bool
	)
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, user_type, is_active, email_verified)
		 VALUES ($1, $2, $3, $4, 'admin', TRUE, TRUE)
		 ON CONFLICT ((lower(email))) DO UPDATE
		   SET password_hash = EXCLUDED.password_hash, user_type = 'admin', is_active = TRUE, updated_at = now()
		 RETURNING `+userColumns+`, (xmax = 0)`,
		strings.TrimSpace(nu.Email), nu.PasswordHash, nu.FirstName, nu.LastName)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.Role, &u.ProfilePicture, &u.IsActive, &u.EmailVerified, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt, &created)
	if err != nil {
		return model.User{}, false, fmt.Errorf("ensure admin: %w", err)
	}
	return u, created, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = now() WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_active = $2, updated_at = now() WHERE user_id = $1`, userID, active)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email_verified = TRUE, updated_at = now() WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// SetProfilePicture stores path and returns the previous value.
func (r *UserRepository) SetProfilePicture(ctx context.Context, userID int64, path string) (string, error) {
	var previous string
	err := r.pool.QueryRow(ctx,
		`WITH old AS (SELECT user_id, profile_picture FROM users WHERE user_id = $1 FOR UPDATE)
		 UPDATE users u SET profile_picture = $2, updated_at = now()
		 FROM old WHERE u.user_id = old.user_id
		 RETURNING COALESCE(old.profile_picture, '')`, userID, path).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("set profile picture: %w", err)
	}
	return previous, nil
}

func (r *UserRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, int, error) {
	var c conditions
	if filter.Role != "" {
		c.add("user_type = " + c.arg(filter.Role))
	}
	if strings.TrimSpace(filter.Search) != "" {
		p := c.arg(likePattern(filter.Search))
		c.add("(email ILIKE " + p + " OR first_name ILIKE " + p + " OR last_name ILIKE " + p + ")")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	limit := c.arg(filter.Limit)
	skip := c.arg(offset(filter.Page, filter.Limit))
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users`+c.where()+
			` ORDER BY created_at DESC, user_id DESC LIMIT `+limit+` OFFSET `+skip, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}
