package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"workconnect/internal/config"
	"workconnect/internal/csrf"
	"workconnect/internal/handler"
	"workconnect/internal/metrics"
	"workconnect/internal/middleware"
	"workconnect/internal/model"
	"workconnect/internal/policy"
	"workconnect/internal/ratelimit"
	"workconnect/internal/session"
)

// multipartSlack covers form fields and boundaries around an upload.
const multipartSlack = 1 << 20

type availabilityChecker interface {
	Available(ctx context.Context) error
}

type Dependencies struct {
	Metrics  *metrics.Metrics
	Sessions *session.Manager
	Tokens   *csrf.Manager
	Limiter  *ratelimit.Limiter
	Policy   *policy.Table
	DB       availabilityChecker
}

type Handlers struct {
	API     *handler.Dispatcher
	Pages   *handler.PagesHandler
	WS      *handler.WebSocketHandler
	Health  *handler.HealthHandler
	Uploads *handler.UploadsHandler
}

func New(cfg *config.Config, deps Dependencies, h Handlers) http.Handler {
	r := chi.NewRouter()
	showDetails := !cfg.IsProduction()

	r.Use(middleware.Recovery(showDetails))
	r.Use(middleware.Logging(deps.Metrics))
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health", h.Health.ServeHTTP)
	r.Handle("/metrics", deps.Metrics.Handler())
	r.Get("/uploads/*", h.Uploads.ServeHTTP)

	r.Group(func(web chi.Router) {
		web.Use(middleware.Sessions(deps.Sessions))
		web.Use(middleware.DatabaseGuard(deps.DB))

		web.Get("/", h.Pages.Home())
		web.Get("/login", h.Pages.Login())
		web.Get("/register", h.Pages.Register())
		web.Get("/dashboard", h.Pages.Dashboard())
		web.Get("/admin", h.Pages.Admin())
	})

	r.Route("/api/v1", func(api chi.Router) {
		// Hijacked connections cannot run under http.TimeoutHandler.
		api.With(
			middleware.Sessions(deps.Sessions),
			middleware.RateLimit(deps.Limiter, deps.Metrics),
		).Get("/ws", h.WS.ServeHTTP)

		api.Group(func(g chi.Router) {
			g.Use(middleware.Timeout(cfg.RequestTimeout))
			g.Use(limitBody(cfg.MaxUploadSize + multipartSlack))
			g.Use(middleware.Sessions(deps.Sessions))
			g.Use(middleware.RateLimit(deps.Limiter, deps.Metrics))
			g.Use(middleware.DatabaseGuard(deps.DB))

			g.With(middleware.Guard(deps.Policy, deps.Tokens)).Handle("/{resource}", h.API)
		})
	})

	return r
}

func limitBody(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		handler.WriteEnvelope(w, http.StatusNotFound, model.NewResponse(false, "Endpoint not found.", nil))
		return
	}
	http.NotFound(w, r)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		handler.WriteEnvelope(w, http.StatusMethodNotAllowed, model.NewResponse(false, "Method not allowed.", nil))
		return
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
