package handler

import (
	"net/http"
	"strings"

	"workconnect/internal/model"
	"workconnect/internal/service"
)

type ApplicationsHandler struct {
	responder
	service *service.ApplicationService
}

func NewApplicationsHandler(svc *service.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{service: svc}
}

func (h *ApplicationsHandler) name() string { return "applications" }

func (h *ApplicationsHandler) actions() actionSet {
	return actionSet{
		actionKey(http.MethodGet, "mine"):                  h.Mine,
		actionKey(http.MethodGet, "my_applications"):       h.SeekerApplications,
		actionKey(http.MethodGet, "employer_applications"): h.EmployerApplications,
		actionKey(http.MethodGet, "history"):               h.History,
		actionKey(http.MethodPut, "update_status"):         h.UpdateStatus,
		actionKey(http.MethodPut, "withdraw"):              h.Withdraw,
	}
}

// Mine lists the caller's applications from whichever side they are on.
func (h *ApplicationsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	if callerRole(r) == model.RoleEmployer {
		h.EmployerApplications(w, r)
		return
	}
	h.SeekerApplications(w, r)
}

func (h *ApplicationsHandler) SeekerApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.service.ForSeeker(r.Context(), caller(r).UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Applications retrieved", nonNil(apps))
}

func (h *ApplicationsHandler) EmployerApplications(w http.ResponseWriter, r *http.Request) {
	filter := model.ApplicationFilter{
		JobID:  queryInt64(r, "job_id"),
		Status: model.ApplicationStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
	}

	apps, err := h.service.ForEmployer(r.Context(), caller(r).UserID, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Applications retrieved", nonNil(apps))
}

func (h *ApplicationsHandler) History(w http.ResponseWriter, r *http.Request) {
	s := caller(r)
	changes, err := h.service.History(r.Context(), s.UserID, s.CurrentRole(), queryInt64(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Status history retrieved", nonNil(changes))
}

func (h *ApplicationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload model.StatusUpdateRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	parties, err := h.service.UpdateStatus(r.Context(), caller(r).UserID, payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Application status updated.", map[string]any{
		"application_id": parties.ApplicationID,
		"status":         parties.Status,
	})
}

func (h *ApplicationsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var payload model.WithdrawRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	parties, err := h.service.Withdraw(r.Context(), caller(r).UserID, payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Application withdrawn.", map[string]any{
		"application_id": parties.ApplicationID,
		"status":         parties.Status,
	})
}
