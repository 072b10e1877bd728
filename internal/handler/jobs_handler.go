package handler

import (
	"net/http"
	"strings"

	"workconnect/internal/model"
	"workconnect/internal/service"
)

type JobsHandler struct {
	responder
	jobs *service.JobService
	apps *service.ApplicationService
}

func NewJobsHandler(jobs *service.JobService, apps *service.ApplicationService) *JobsHandler {
	return &JobsHandler{jobs: jobs, apps: apps}
}

func (h *JobsHandler) name() string { return "jobs" }

func (h *JobsHandler) actions() actionSet {
	return actionSet{
		actionKey(http.MethodGet, "search"):          h.Search,
		actionKey(http.MethodGet, "featured"):        h.Featured,
		actionKey(http.MethodGet, "details"):         h.Details,
		actionKey(http.MethodGet, "categories"):      h.Categories,
		actionKey(http.MethodGet, "employer_posted"): h.EmployerPosted,
		actionKey(http.MethodGet, "saved"):           h.Saved,
		actionKey(http.MethodPost, "apply"):          h.Apply,
		actionKey(http.MethodPost, "save"):           h.Save,
		actionKey(http.MethodPost, "unsave"):         h.Unsave,
		actionKey(http.MethodPost, "post_job"):       h.PostJob,
		actionKey(http.MethodPut, "close"):           h.Close,
	}
}

func (h *JobsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	categoryID := queryInt64(r, "category_id")
	if categoryID == 0 {
		categoryID = queryInt64(r, "category")
	}

	page, err := h.jobs.Search(r.Context(), model.JobFilter{
		Keyword:    strings.TrimSpace(query.Get("keyword")),
		Location:   strings.TrimSpace(query.Get("location")),
		JobType:    strings.TrimSpace(query.Get("job_type")),
		CategoryID: categoryID,
		SalaryMin:  queryFloat(r, "salary_min"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Jobs retrieved", page)
}

func (h *JobsHandler) Featured(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.Featured(r.Context(), queryInt(r, "limit"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Featured jobs retrieved", nonNil(jobs))
}

func (h *JobsHandler) Details(w http.ResponseWriter, r *http.Request) {
	s := caller(r)
	job, err := h.jobs.Details(r.Context(), queryInt64(r, "id"), s.UserID, s.CurrentRole())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Job details retrieved", job)
}

func (h *JobsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.jobs.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Categories retrieved", nonNil(categories))
}

func (h *JobsHandler) EmployerPosted(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.EmployerJobs(r.Context(), caller(r).UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Posted jobs retrieved", nonNil(jobs))
}

func (h *JobsHandler) Saved(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.SavedJobs(r.Context(), caller(r).UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Saved jobs retrieved", nonNil(jobs))
}

func (h *JobsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var payload model.ApplyRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.apps.Apply(r.Context(), caller(r).UserID, payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Application submitted successfully.", map[string]int64{"application_id": id})
}

func (h *JobsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var payload model.JobRefRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.jobs.SaveJob(r.Context(), caller(r).UserID, payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Job saved.", nil)
}

func (h *JobsHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	var payload model.JobRefRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.jobs.UnsaveJob(r.Context(), caller(r).UserID, payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Job removed from saved list.", nil)
}

func (h *JobsHandler) PostJob(w http.ResponseWriter, r *http.Request) {
	var payload model.PostJobRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	job, err := h.jobs.PostJob(r.Context(), caller(r).UserID, payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Job posted successfully. It will be visible once approved.", job)
}

func (h *JobsHandler) Close(w http.ResponseWriter, r *http.Request) {
	var payload model.JobRefRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.jobs.CloseJob(r.Context(), caller(r).UserID, payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Job closed.", nil)
}

// nonNil keeps empty lists as [] in the JSON output.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
