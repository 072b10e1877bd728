package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"workconnect/internal/session"
)

const (
	tokenBytes = 32

	FieldName  = "csrf_token"
	HeaderName = "X-CSRF-Token"
)

type Manager struct {
	expiry time.Duration
	now    func() time.Time
}

func New(expiry time.Duration) *Manager {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &Manager{expiry: expiry, now: time.Now}
}

// Issue returns the session's current token, minting a fresh one when none
// exists or the old one expired. changed reports whether s must be saved.
func (m *Manager) Issue(s *session.Session) (token string, changed bool, err error) {
	if s.CSRFToken != "" && !m.expired(s) {
		return s.CSRFToken, false, nil
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", false, fmt.Errorf("generate csrf token: %w", err)
	}

	s.CSRFToken = hex.EncodeToString(buf)
	s.CSRFIssuedAt = m.now()
	return s.CSRFToken, true, nil
}

// Validate never errors; any doubt is a rejection.
func (m *Manager) Validate(s *session.Session, candidate string) bool {
	if s == nil || s.CSRFToken == "" || candidate == "" {
		return false
	}
	if m.expired(s) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(candidate)) == 1
}

func (m *Manager) expired(s *session.Session) bool {
	return m.now().Sub(s.CSRFIssuedAt) > m.expiry
}
