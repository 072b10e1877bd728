package handler

import (
	"net/http"
	"strings"

	"workconnect/internal/model"
	"workconnect/internal/service"
)

type AdminHandler struct {
	responder
	service *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

func (h *AdminHandler) name() string { return "admin" }

func (h *AdminHandler) actions() actionSet {
	return actionSet{
		actionKey(http.MethodGet, "users"):           h.Users,
		actionKey(http.MethodGet, "pending_jobs"):    h.PendingJobs,
		actionKey(http.MethodGet, "stats"):           h.Stats,
		actionKey(http.MethodGet, "db_stats"):        h.DBStats,
		actionKey(http.MethodPut, "set_user_status"): h.SetUserStatus,
		actionKey(http.MethodPut, "approve_job"):     h.ApproveJob,
		actionKey(http.MethodPut, "reject_job"):      h.RejectJob,
	}
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := h.service.Users(r.Context(), model.UserFilter{
		Role:   model.Role(strings.TrimSpace(query.Get("user_type"))),
		Search: strings.TrimSpace(query.Get("search")),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Users retrieved", page)
}

func (h *AdminHandler) PendingJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.PendingJobs(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Pending jobs retrieved", nonNil(jobs))
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Platform statistics retrieved", stats)
}

func (h *AdminHandler) DBStats(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "Database statistics retrieved", h.service.DBStats())
}

func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	var payload model.UserStatusRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.SetUserStatus(r.Context(), caller(r).UserID, payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User status updated.", nil)
}

func (h *AdminHandler) ApproveJob(w http.ResponseWriter, r *http.Request) {
	var payload model.JobReviewRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.ApproveJob(r.Context(), caller(r).UserID, payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Job approved.", nil)
}

func (h *AdminHandler) RejectJob(w http.ResponseWriter, r *http.Request) {
	var payload model.JobReviewRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.RejectJob(r.Context(), caller(r).UserID, payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Job rejected.", nil)
}
