package handler

import (
	"net/http"

	"workconnect/internal/service"
)

type DashboardHandler struct {
	responder
	service *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

func (h *DashboardHandler) name() string { return "dashboard" }

func (h *DashboardHandler) actions() actionSet {
	return actionSet{
		actionKey(http.MethodGet, "stats"):      h.Stats,
		actionKey(http.MethodGet, "activities"): h.Activities,
	}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s := caller(r)
	stats, err := h.service.Stats(r.Context(), s.UserID, s.CurrentRole())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Dashboard statistics retrieved", stats)
}

func (h *DashboardHandler) Activities(w http.ResponseWriter, r *http.Request) {
	s := caller(r)
	activities, err := h.service.Activities(r.Context(), s.UserID, s.CurrentRole(), queryInt(r, "limit"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Recent activities retrieved", activities)
}
