package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"workconnect/internal/model"
)

const (
	employerUser  int64 = 20
	applicantUser int64 = 30
)

func partiesAt(status model.ApplicationStatus) model.ApplicationParties {
	return model.ApplicationParties{
		ApplicationID:   5,
		Status:          status,
		JobID:           9,
		JobTitle:        "Warehouse Supervisor",
		ApplicantUserID: applicantUser,
		EmployerUserID:  employerUser,
	}
}

func TestApplyNotifiesEmployer(t *testing.T) {
	t.Parallel()

	apps := &mockApplicationStore{}
	notifier := &recordingNotifier{}
	s := NewApplicationService(apps, notifier)

	apps.On("Apply", mock.Anything, mock.MatchedBy(func(na model.NewApplication) bool {
		return na.JobID == 9 && na.JobSeekerUserID == applicantUser && *na.ExpectedSalary == 25000
	}), mock.Anything).Return(partiesAt(model.StatusSubmitted), nil)

	id, err := s.Apply(context.Background(), applicantUser, model.ApplyRequest{
		JobID: "9", CoverLetter: "Hello", ExpectedSalary: "25000", AvailabilityDate: "2026-04-01",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	require.Len(t, notifier.all(), 1)
	assert.Equal(t, employerUser, notifier.all()[0].UserID)
	assert.Equal(t, "New Application", notifier.all()[0].Title)
}

func TestApplyMapsDomainErrors(t *testing.T) {
	t.Parallel()

	t.Run("duplicate application", func(t *testing.T) {
		apps := &mockApplicationStore{}
		s := NewApplicationService(apps, &recordingNotifier{})
		apps.On("Apply", mock.Anything, mock.Anything, mock.Anything).Return(model.ApplicationParties{}, model.ErrAlreadyApplied)

		_, err := s.Apply(context.Background(), applicantUser, model.ApplyRequest{JobID: "9"})

		apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
		assert.Equal(t, "You have already applied for this job.", apiErr.Fields["job_id"])
	})

	t.Run("closed job", func(t *testing.T) {
		apps := &mockApplicationStore{}
		s := NewApplicationService(apps, &recordingNotifier{})
		apps.On("Apply", mock.Anything, mock.Anything, mock.Anything).Return(model.ApplicationParties{}, model.ErrJobNotOpen)

		_, err := s.Apply(context.Background(), applicantUser, model.ApplyRequest{JobID: "9"})

		requireAPIError(t, err, http.StatusBadRequest)
	})

	t.Run("missing job id never reaches the store", func(t *testing.T) {
		apps := &mockApplicationStore{}
		s := NewApplicationService(apps, &recordingNotifier{})

		_, err := s.Apply(context.Background(), applicantUser, model.ApplyRequest{})

		requireAPIError(t, err, http.StatusUnprocessableEntity)
		apps.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		from    model.ApplicationStatus
		to      model.ApplicationStatus
		allowed bool
	}{
		{"submitted to under review", model.StatusSubmitted, model.StatusUnderReview, true},
		{"under review to shortlisted", model.StatusUnderReview, model.StatusShortlisted, true},
		{"interview to accepted", model.StatusInterview, model.StatusAccepted, true},
		{"shortlisted to rejected", model.StatusShortlisted, model.StatusRejected, true},
		{"submitted straight to accepted", model.StatusSubmitted, model.StatusAccepted, false},
		{"rejected is terminal", model.StatusRejected, model.StatusUnderReview, false},
		{"employer cannot withdraw", model.StatusSubmitted, model.StatusWithdrawn, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			apps := &mockApplicationStore{}
			notifier := &recordingNotifier{}
			s := NewApplicationService(apps, notifier)
			apps.On("Transition", mock.Anything, int64(5), employerUser, tc.to, "").Return(partiesAt(tc.from), nil)

			parties, err := s.UpdateStatus(context.Background(), employerUser, model.StatusUpdateRequest{
				ApplicationID: "5", Status: string(tc.to),
			})

			if !tc.allowed {
				apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
				assert.Contains(t, apiErr.Fields["status"], "Cannot change status")
				assert.Empty(t, notifier.all())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, parties.Status)
			require.Len(t, notifier.all(), 1)
			assert.Equal(t, applicantUser, notifier.all()[0].UserID)
		})
	}
}

func TestUpdateStatusRequiresJobOwnership(t *testing.T) {
	t.Parallel()

	apps := &mockApplicationStore{}
	s := NewApplicationService(apps, &recordingNotifier{})
	apps.On("Transition", mock.Anything, int64(5), int64(99), model.StatusUnderReview, "").Return(partiesAt(model.StatusSubmitted), nil)

	_, err := s.UpdateStatus(context.Background(), 99, model.StatusUpdateRequest{ApplicationID: "5", Status: "under_review"})

	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestWithdraw(t *testing.T) {
	t.Parallel()

	t.Run("applicant withdraws an open application", func(t *testing.T) {
		apps := &mockApplicationStore{}
		notifier := &recordingNotifier{}
		s := NewApplicationService(apps, notifier)
		apps.On("Transition", mock.Anything, int64(5), applicantUser, model.StatusWithdrawn, "Withdrawn by applicant").
			Return(partiesAt(model.StatusShortlisted), nil)

		parties, err := s.Withdraw(context.Background(), applicantUser, model.WithdrawRequest{ApplicationID: "5"})

		require.NoError(t, err)
		assert.Equal(t, model.StatusWithdrawn, parties.Status)
		require.Len(t, notifier.all(), 1)
		assert.Equal(t, employerUser, notifier.all()[0].UserID)
	})

	t.Run("accepted applications stay accepted", func(t *testing.T) {
		apps := &mockApplicationStore{}
		s := NewApplicationService(apps, &recordingNotifier{})
		apps.On("Transition", mock.Anything, int64(5), applicantUser, model.StatusWithdrawn, "Withdrawn by applicant").
			Return(partiesAt(model.StatusAccepted), nil)

		_, err := s.Withdraw(context.Background(), applicantUser, model.WithdrawRequest{ApplicationID: "5"})

		requireAPIError(t, err, http.StatusUnprocessableEntity)
	})

	t.Run("someone else's application", func(t *testing.T) {
		apps := &mockApplicationStore{}
		s := NewApplicationService(apps, &recordingNotifier{})
		apps.On("Transition", mock.Anything, int64(5), int64(31), model.StatusWithdrawn, "Withdrawn by applicant").
			Return(partiesAt(model.StatusSubmitted), nil)

		_, err := s.Withdraw(context.Background(), 31, model.WithdrawRequest{ApplicationID: "5"})

		assert.ErrorIs(t, err, model.ErrForbidden)
	})
}

func TestHistoryVisibility(t *testing.T) {
	t.Parallel()

	history := []model.StatusChange{{NewStatus: model.StatusSubmitted}}

	for _, tc := range []struct {
		name    string
		viewer  int64
		role    model.Role
		allowed bool
	}{
		{"applicant", applicantUser, model.RoleJobSeeker, true},
		{"owning employer", employerUser, model.RoleEmployer, true},
		{"admin", 1, model.RoleAdmin, true},
		{"other employer", 21, model.RoleEmployer, false},
		{"other seeker", 31, model.RoleJobSeeker, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			apps := &mockApplicationStore{}
			s := NewApplicationService(apps, &recordingNotifier{})
			apps.On("Parties", mock.Anything, int64(5)).Return(partiesAt(model.StatusSubmitted), nil)
			apps.On("History", mock.Anything, int64(5)).Return(history, nil).Maybe()

			got, err := s.History(context.Background(), tc.viewer, tc.role, 5)

			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, history, got)
				return
			}
			assert.ErrorIs(t, err, model.ErrForbidden)
		})
	}
}

func TestForEmployerListsNextStatuses(t *testing.T) {
	t.Parallel()

	apps := &mockApplicationStore{}
	s := NewApplicationService(apps, &recordingNotifier{})

	filter := model.ApplicationFilter{JobID: 9}
	apps.On("ForEmployer", mock.Anything, employerUser, filter).Return([]model.Application{
		{ID: 1, Status: model.StatusUnderReview},
		{ID: 2, Status: model.StatusAccepted},
	}, nil)

	got, err := s.ForEmployer(context.Background(), employerUser, filter)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []model.ApplicationStatus{model.StatusShortlisted, model.StatusRejected}, got[0].NextStatuses)
	assert.Empty(t, got[1].NextStatuses, "accepted is terminal")
	apps.AssertExpectations(t)
}
