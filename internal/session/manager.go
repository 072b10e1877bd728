package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"workconnect/internal/model"
)

const DefaultCookieName = "wc_session"

type Options struct {
	CookieName     string
	Lifetime       time.Duration
	RotateInterval time.Duration
	// RotationGrace keeps a rotated-away id usable for requests already in flight.
	RotationGrace  time.Duration
	// Secure forces the Secure cookie flag even behind plain HTTP hops.
	Secure         bool
}

type Manager struct {
	store Store
	opts  Options
	now   func() time.Time
}

func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.Lifetime <= 0 {
		opts.Lifetime = 24 * time.Hour
	}
	if opts.RotateInterval <= 0 {
		opts.RotateInterval = 30 * time.Minute
	}
	if opts.RotationGrace <= 0 {
		opts.RotationGrace = 30 * time.Second
	}

	return &Manager{store: store, opts: opts, now: time.Now}
}

// Load resolves the request's session. A missing, expired or unreadable
// session yields a fresh anonymous one that is persisted only when saved.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err == nil && cookie.Value != "" {
		s, loadErr := m.store.Load(r.Context(), cookie.Value)
		if loadErr == nil {
			return s
		}
		if !errors.Is(loadErr, ErrNotFound) {
			slog.Warn("session load failed", "error", loadErr)
		}
	}

	now := m.now()
	return &Session{CreatedAt: now, RotatedAt: now}
}

// NeedsRotation reports whether an authenticated session is due a new id.
func (m *Manager) NeedsRotation(s *Session) bool {
	return s.Authenticated() && s.ID != "" && m.now().Sub(s.RotatedAt) > m.opts.RotateInterval
}

// Save persists s and (re)sends the cookie, assigning an id on first save.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, s *Session) error {
	if s.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		s.ID = id
	}

	if err := m.store.Save(r.Context(), s, m.opts.Lifetime); err != nil {
		return err
	}

	http.SetCookie(w, m.cookie(r, s.ID, int(m.opts.Lifetime.Seconds())))
	return nil
}

// Regenerate moves s to a new id and drops the old record.
func (m *Manager) Regenerate(w http.ResponseWriter, r *http.Request, s *Session) error {
	oldID := s.ID
	if err := m.moveToNewID(w, r, s); err != nil {
		return err
	}

	if oldID != "" {
		m.deleteQuietly(r.Context(), oldID)
	}
	if s.PreviousID != "" {
		m.deleteQuietly(r.Context(), s.PreviousID)
		s.PreviousID = ""
	}
	return nil
}

// Rotate moves an authenticated session to a new id. The old id keeps a copy
// of the session for the grace period so concurrent requests that still send
// the previous cookie do not turn anonymous.
func (m *Manager) Rotate(w http.ResponseWriter, r *http.Request, s *Session) error {
	oldID := s.ID
	if s.PreviousID != "" {
		m.deleteQuietly(r.Context(), s.PreviousID)
	}
	s.PreviousID = oldID
	if err := m.moveToNewID(w, r, s); err != nil {
		return err
	}

	retired := *s
	retired.ID = oldID
	retired.PreviousID = ""
	if err := m.store.Save(r.Context(), &retired, m.opts.RotationGrace); err != nil {
		slog.Warn("retired session save failed", "error", err)
	}
	return nil
}

func (m *Manager) moveToNewID(w http.ResponseWriter, r *http.Request, s *Session) error {
	id, err := newID()
	if err != nil {
		return err
	}

	s.ID = id
	s.RotatedAt = m.now()
	return m.Save(w, r, s)
}

// Login binds user to the session under a new id. The anonymous CSRF token is
// dropped so the authenticated session gets its own on the next check.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, s *Session, user model.AuthUser) error {
	s.CSRFToken = ""
	s.CSRFIssuedAt = time.Time{}
	s.UserID = user.UserID
	s.Role = user.Role
	s.Name = strings.TrimSpace(user.FirstName + " " + user.LastName)
	s.Email = user.Email
	s.CreatedAt = m.now()
	return m.Regenerate(w, r, s)
}

// Destroy removes the session record and expires the cookie. s is reset to anonymous.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request, s *Session) error {
	var err error
	if s.ID != "" {
		err = m.store.Delete(r.Context(), s.ID)
	}
	if s.PreviousID != "" {
		m.deleteQuietly(r.Context(), s.PreviousID)
	}

	now := m.now()
	*s = Session{CreatedAt: now, RotatedAt: now}
	http.SetCookie(w, m.cookie(r, "", -1))
	return err
}

func (m *Manager) deleteQuietly(ctx context.Context, id string) {
	if err := m.store.Delete(ctx, id); err != nil {
		slog.Warn("session delete failed", "error", err)
	}
}

func (m *Manager) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.Secure || isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	}
}

func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https")
}
