package middleware

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
)

type availability interface {
	Available(ctx context.Context) error
}

var outagePage = template.Must(template.New("outage").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Service unavailable | WorkConnect PH</title></head>
<body>
<h1>We'll be right back</h1>
<p>{{.}}</p>
</body>
</html>`))

const outageMessage = "Database connection failed. Please try again later."

// DatabaseGuard short-circuits requests while the database is unreachable:
// API paths get a JSON envelope, browser paths an HTML page.
func DatabaseGuard(db availability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := db.Available(r.Context())
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			slog.Error("database unavailable", "path", r.URL.Path, "error", err)
			if strings.HasPrefix(r.URL.Path, "/api/") {
				writeEnvelope(w, http.StatusInternalServerError, outageMessage, nil)
				return
			}

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_ = outagePage.Execute(w, outageMessage)
		})
	}
}
