package middleware

import (
	"log/slog"
	"net/http"

	"workconnect/internal/session"
)

// Sessions loads the caller's session into the request context and moves
// authenticated sessions to a fresh id once the rotation interval passed.
// The previous id stays readable for a short grace period.
func Sessions(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := manager.Load(r)
			if manager.NeedsRotation(s) {
				if err := manager.Rotate(w, r, s); err != nil {
					slog.Warn("session rotation failed", "error", err)
				}
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}
