package handler

import (
	"context"
	"net/http"

	"workconnect/internal/model"
)

// Check reports the liveness of one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	if status != http.StatusOK {
		writeJSON(w, status, model.NewResponse(false, "degraded", components))
		return
	}
	writeSuccess(w, status, "ok", components)
}
