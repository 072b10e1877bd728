package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"workconnect/internal/database"
	"workconnect/internal/model"
)

type mockAdminStore struct {
	mock.Mock
}

func (m *mockAdminStore) List(ctx context.Context, filter model.UserFilter) ([]model.User, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.User), args.Int(1), args.Error(2)
}

func (m *mockAdminStore) SetActive(ctx context.Context, userID int64, active bool) error {
	return m.Called(ctx, userID, active).Error(0)
}

func (m *mockAdminStore) Pending(ctx context.Context) ([]model.Job, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Job), args.Error(1)
}

func (m *mockAdminStore) Review(ctx context.Context, jobID int64, reviewerID int64, status model.JobStatus, notes string) (model.JobReview, error) {
	args := m.Called(ctx, jobID, reviewerID, status, notes)
	return args.Get(0).(model.JobReview), args.Error(1)
}

func (m *mockAdminStore) Platform(ctx context.Context) (model.PlatformStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.PlatformStats), args.Error(1)
}

type fixedPool database.Stats

func (p fixedPool) Stats() database.Stats { return database.Stats(p) }

func TestSetUserStatus(t *testing.T) {
	t.Parallel()

	store := &mockAdminStore{}
	s := NewAdminService(store, store, store, nil, &recordingNotifier{})
	store.On("SetActive", mock.Anything, int64(8), false).Return(nil)

	require.NoError(t, s.SetUserStatus(context.Background(), 1, model.UserStatusRequest{UserID: "8", IsActive: "false"}))
	store.AssertExpectations(t)

	err := s.SetUserStatus(context.Background(), 1, model.UserStatusRequest{UserID: "1", IsActive: "false"})
	requireAPIError(t, err, http.StatusBadRequest)
}

func TestReviewJobsNotifyEmployer(t *testing.T) {
	t.Parallel()

	store := &mockAdminStore{}
	notifier := &recordingNotifier{}
	s := NewAdminService(store, store, store, nil, notifier)
	review := model.JobReview{JobID: 9, Title: "Barista", EmployerUserID: 20}
	store.On("Review", mock.Anything, int64(9), int64(1), model.JobStatusPublished, "").Return(review, nil)
	store.On("Review", mock.Anything, int64(9), int64(1), model.JobStatusRejected, "Duplicate posting").Return(review, nil)

	require.NoError(t, s.ApproveJob(context.Background(), 1, model.JobReviewRequest{JobID: "9"}))
	require.NoError(t, s.RejectJob(context.Background(), 1, model.JobReviewRequest{JobID: "9", Reason: " Duplicate posting "}))

	sent := notifier.all()
	require.Len(t, sent, 2)
	assert.Equal(t, "Job Approved", sent[0].Title)
	assert.Equal(t, "Job Rejected", sent[1].Title)
	assert.Contains(t, sent[1].Message, "Duplicate posting")

	err := s.RejectJob(context.Background(), 1, model.JobReviewRequest{JobID: "9"})
	apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
	assert.Contains(t, apiErr.Fields, "reason")
}

func TestUsersValidatesRoleFilter(t *testing.T) {
	t.Parallel()

	store := &mockAdminStore{}
	s := NewAdminService(store, store, store, fixedPool{QueryCount: 12}, &recordingNotifier{})
	store.On("List", mock.Anything, model.UserFilter{Role: model.RoleEmployer, Search: "santos", Page: 1, Limit: defaultPageSize}).
		Return([]model.User{{ID: 2}}, 1, nil)

	page, err := s.Users(context.Background(), model.UserFilter{Role: model.RoleEmployer, Search: " santos "})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.Total)

	_, err = s.Users(context.Background(), model.UserFilter{Role: "root"})
	requireAPIError(t, err, http.StatusUnprocessableEntity)

	assert.Equal(t, int64(12), s.DBStats().QueryCount)
}
