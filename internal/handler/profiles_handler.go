package handler

import (
	"net/http"

	"workconnect/internal/model"
	"workconnect/internal/service"
)

type ProfilesHandler struct {
	responder
	service *service.ProfileService
}

func NewProfilesHandler(svc *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{service: svc}
}

func (h *ProfilesHandler) name() string { return "profiles" }

func (h *ProfilesHandler) actions() actionSet {
	return actionSet{
		actionKey(http.MethodGet, "me"):          h.Me,
		actionKey(http.MethodGet, "job_seeker"):  h.JobSeeker,
		actionKey(http.MethodGet, "employer"):    h.Employer,
		actionKey(http.MethodPost, "save"):       h.Save,
		actionKey(http.MethodPost, "job_seeker"): h.SaveJobSeeker,
		actionKey(http.MethodPost, "employer"):   h.SaveEmployer,
		actionKey(http.MethodPut, "save"):        h.Save,
		actionKey(http.MethodPut, "job_seeker"):  h.SaveJobSeeker,
		actionKey(http.MethodPut, "employer"):    h.SaveEmployer,
	}
}

func (h *ProfilesHandler) Me(w http.ResponseWriter, r *http.Request) {
	if callerRole(r) == model.RoleEmployer {
		h.Employer(w, r)
		return
	}
	h.JobSeeker(w, r)
}

func (h *ProfilesHandler) JobSeeker(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.JobSeeker(r.Context(), caller(r).UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Profile retrieved", profile)
}

func (h *ProfilesHandler) Employer(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Employer(r.Context(), caller(r).UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Profile retrieved", profile)
}

// Save updates the profile matching the caller's role.
func (h *ProfilesHandler) Save(w http.ResponseWriter, r *http.Request) {
	if callerRole(r) == model.RoleEmployer {
		h.SaveEmployer(w, r)
		return
	}
	h.SaveJobSeeker(w, r)
}

func (h *ProfilesHandler) SaveJobSeeker(w http.ResponseWriter, r *http.Request) {
	var payload model.JobSeekerProfileRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	profile, err := h.service.UpdateJobSeeker(r.Context(), caller(r).UserID, payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Profile updated successfully.", profile)
}

func (h *ProfilesHandler) SaveEmployer(w http.ResponseWriter, r *http.Request) {
	var payload model.EmployerProfileRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	profile, err := h.service.UpdateEmployer(r.Context(), caller(r).UserID, payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Profile updated successfully.", profile)
}
