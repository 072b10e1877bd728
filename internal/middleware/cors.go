package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"workconnect/internal/csrf"
)

// CORS allows the configured origins to call the API with the session cookie.
func CORS(origins []string) func(http.Handler) http.Handler {
	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With", csrf.HeaderName, requestIDHeader},
		ExposedHeaders:   []string{"Retry-After", requestIDHeader},
		MaxAge:           3600,
		AllowCredentials: true,
	})

	return handler.Handler
}
