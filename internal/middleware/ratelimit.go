package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"workconnect/internal/metrics"
	"workconnect/internal/ratelimit"
	"workconnect/pkg/apierror"
)

// RateLimit counts requests per client and endpoint, where the endpoint is the
// path plus its action. A failing counter store lets the request through.
func RateLimit(limiter *ratelimit.Limiter, m *metrics.Metrics) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(limiter.Window().Seconds()))
	limited := apierror.RateLimited(limiter.Window())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			endpoint := r.URL.Path
			if action := r.URL.Query().Get("action"); action != "" {
				endpoint += "?action=" + action
			}

			err := limiter.Check(r.Context(), clientIP(r), endpoint)
			switch {
			case errors.Is(err, ratelimit.ErrLimited):
				m.RateLimited(routePattern(r))
				w.Header().Set("Retry-After", retryAfter)
				writeEnvelope(w, limited.HTTPStatus, limited.Message, nil)
				return
			case err != nil:
				slog.Warn("rate limit check failed", "endpoint", endpoint, "error", err)
			}

			next.ServeHTTP(w, r)
		})
	}
}
