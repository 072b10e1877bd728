package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"workconnect/internal/model"
)

var ErrNotFound = errors.New("session not found")

// Session is the server-side state behind the session cookie.
type Session struct {
	ID           string     `json:"id"`
	UserID       int64      `json:"user_id"`
	Role         model.Role `json:"role"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	CreatedAt    time.Time  `json:"created_at"`
	RotatedAt    time.Time  `json:"rotated_at"`
	CSRFToken    string     `json:"csrf_token"`
	CSRFIssuedAt time.Time  `json:"csrf_issued_at"`
	// PreviousID is the id retired by the last rotation, still valid for the grace period.
	PreviousID   string     `json:"previous_id,omitempty"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}

// CurrentRole returns the role of an authenticated session, or "".
func (s *Session) CurrentRole() model.Role {
	if !s.Authenticated() {
		return ""
	}
	return s.Role
}

type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

func newID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
