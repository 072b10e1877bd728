package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"workconnect/internal/model"
)

var jobsNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestJobService() (*JobService, *mockJobStore) {
	jobs := &mockJobStore{}
	s := NewJobService(jobs)
	s.now = func() time.Time { return jobsNow }
	return s, jobs
}

func validPostJob() model.PostJobRequest {
	return model.PostJobRequest{
		CategoryID:          "3",
		Title:               "Senior Go Developer",
		Description:         "Build and run the payments platform for our clients.",
		JobType:             "full_time",
		ExperienceLevel:     "senior",
		Location:            "Makati City",
		SalaryMin:           "80000",
		SalaryMax:           "120000",
		ApplicationDeadline: "2026-04-30",
		Skills:              []string{"Go", " ", "PostgreSQL"},
	}
}

func TestPostJob(t *testing.T) {
	t.Parallel()

	t.Run("stores a pending job with its skills", func(t *testing.T) {
		s, jobs := newTestJobService()
		jobs.On("CategoryExists", mock.Anything, int64(3)).Return(true, nil)
		jobs.On("Create", mock.Anything, mock.MatchedBy(func(nj model.NewJob) bool {
			return nj.EmployerUserID == 20 && nj.CategoryID == 3 && len(nj.Skills) == 2 &&
				nj.Skills[0] == model.JobSkill{Name: "Go", Importance: "required"} &&
				*nj.SalaryMax == 120000 && nj.ApplicationDeadline.Format(dateLayout) == "2026-04-30"
		})).Return(int64(44), nil)
		jobs.On("FindByID", mock.Anything, int64(44)).Return(model.Job{ID: 44, Status: model.JobStatusPending}, nil)

		job, err := s.PostJob(context.Background(), 20, validPostJob())

		require.NoError(t, err)
		assert.Equal(t, model.JobStatusPending, job.Status)
		jobs.AssertExpectations(t)
	})

	t.Run("salary range must be ordered", func(t *testing.T) {
		s, jobs := newTestJobService()
		req := validPostJob()
		req.SalaryMin, req.SalaryMax = "90000", "50000"

		_, err := s.PostJob(context.Background(), 20, req)

		apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
		assert.Contains(t, apiErr.Fields, "salary_max")
		jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("deadline cannot be in the past", func(t *testing.T) {
		s, _ := newTestJobService()
		req := validPostJob()
		req.ApplicationDeadline = "2026-02-28"

		_, err := s.PostJob(context.Background(), 20, req)

		apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
		assert.Equal(t, "Application deadline must not be in the past", apiErr.Fields["application_deadline"])
	})

	t.Run("unknown category", func(t *testing.T) {
		s, jobs := newTestJobService()
		jobs.On("CategoryExists", mock.Anything, int64(3)).Return(false, nil)

		_, err := s.PostJob(context.Background(), 20, validPostJob())

		apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
		assert.Equal(t, "Selected category does not exist", apiErr.Fields["category_id"])
	})

	t.Run("invalid job type", func(t *testing.T) {
		s, _ := newTestJobService()
		req := validPostJob()
		req.JobType = "gig"

		_, err := s.PostJob(context.Background(), 20, req)

		apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
		assert.Contains(t, apiErr.Fields, "job_type")
	})
}

func TestSearchClampsPaging(t *testing.T) {
	t.Parallel()

	s, jobs := newTestJobService()
	jobs.On("Search", mock.Anything, mock.MatchedBy(func(f model.JobFilter) bool {
		return f.Page == 1 && f.Limit == maxPageSize && f.Keyword == "developer"
	}), jobsNow).Return([]model.Job{{ID: 1}}, 51, nil)

	page, err := s.Search(context.Background(), model.JobFilter{Keyword: "developer", Page: -3, Limit: 500})

	require.NoError(t, err)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestDetailsHidesUnpublishedJobs(t *testing.T) {
	t.Parallel()

	pending := model.Job{ID: 8, Status: model.JobStatusPending}

	t.Run("job seeker", func(t *testing.T) {
		s, jobs := newTestJobService()
		jobs.On("FindByID", mock.Anything, int64(8)).Return(pending, nil)

		_, err := s.Details(context.Background(), 8, 30, model.RoleJobSeeker)
		assert.ErrorIs(t, err, model.ErrJobNotFound)
	})

	t.Run("owning employer", func(t *testing.T) {
		s, jobs := newTestJobService()
		jobs.On("FindByID", mock.Anything, int64(8)).Return(pending, nil)
		jobs.On("EmployerUserID", mock.Anything, int64(8)).Return(int64(20), nil)

		job, err := s.Details(context.Background(), 8, 20, model.RoleEmployer)
		require.NoError(t, err)
		assert.Equal(t, int64(8), job.ID)
	})

	t.Run("admin", func(t *testing.T) {
		s, jobs := newTestJobService()
		jobs.On("FindByID", mock.Anything, int64(8)).Return(pending, nil)

		_, err := s.Details(context.Background(), 8, 1, model.RoleAdmin)
		require.NoError(t, err)
	})
}

func TestSaveJobRequiresID(t *testing.T) {
	t.Parallel()

	s, jobs := newTestJobService()

	err := s.SaveJob(context.Background(), 30, model.JobRefRequest{})

	requireAPIError(t, err, http.StatusUnprocessableEntity)
	jobs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}
