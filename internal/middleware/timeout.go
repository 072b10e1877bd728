package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"workconnect/internal/model"
)

const timeoutMessage = "The request took too long to complete."

// Timeout bounds API handlers. On expiry the client gets a 503 envelope and the
// handler's context is cancelled so pending queries stop.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := json.Marshal(model.NewResponse(false, timeoutMessage, nil))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			http.TimeoutHandler(next, timeout, string(body)).ServeHTTP(w, r)
		})
	}
}
