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

// TokenRepository stores password reset tokens.
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// ReplaceReset drops the user's earlier reset tokens and stores a new one.
func (r *TokenRepository) ReplaceReset(ctx context.Context, reset model.PasswordReset) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM password_resets WHERE user_id = $1`, reset.UserID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO password_resets (token, user_id, expires_at) VALUES ($1, $2, $3)`,
			reset.Token, reset.UserID, reset.ExpiresAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	return nil
}

// ConsumeReset sets a new password hash for the token's owner and deletes the
// user's tokens in one transaction. Expired tokens are deleted and rejected.
func (r *TokenRepository) ConsumeReset(ctx context.Context, token string, passwordHash string, now time.Time) (int64, error) {
	var userID int64
	var expired bool
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var expiresAt time.Time
		err := tx.QueryRow(ctx,
			`SELECT user_id, expires_at FROM password_resets WHERE token = $1 FOR UPDATE`, token).
			Scan(&userID, &expiresAt)
		if err != nil {
			return err
		}

		if !now.Before(expiresAt) {
			expired = true
			_, err = tx.Exec(ctx, `DELETE FROM password_resets WHERE token = $1`, token)
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE users SET password_hash = $2, updated_at = now() WHERE user_id = $1`, userID, passwordHash)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrUserNotFound
		}

		_, err = tx.Exec(ctx, `DELETE FROM password_resets WHERE user_id = $1`, userID)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, model.ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("consume reset token: %w", err)
	}
	if expired {
		return 0, model.ErrTokenExpired
	}
	return userID, nil
}

func (r *TokenRepository) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM password_resets WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("clean expired reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
