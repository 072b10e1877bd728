package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workconnect/internal/model"
	"workconnect/internal/validate"
	"workconnect/pkg/apierror"
)

type ApplicationStore interface {
	Apply(ctx context.Context, na model.NewApplication, now time.Time) (model.ApplicationParties, error)
	Transition(ctx context.Context, applicationID int64, actorUserID int64, next model.ApplicationStatus, notes string, check func(model.ApplicationParties) error) (model.ApplicationParties, error)
	Parties(ctx context.Context, applicationID int64) (model.ApplicationParties, error)
	ForSeeker(ctx context.Context, seekerUserID int64) ([]model.Application, error)
	ForEmployer(ctx context.Context, employerUserID int64, filter model.ApplicationFilter) ([]model.Application, error)
	History(ctx context.Context, applicationID int64) ([]model.StatusChange, error)
}

type ApplicationService struct {
	apps     ApplicationStore
	notifier Notifier
	now      func() time.Time
}

func NewApplicationService(apps ApplicationStore, notifier Notifier) *ApplicationService {
	return &ApplicationService{apps: apps, notifier: notifier, now: time.Now}
}

func humanStatus(status model.ApplicationStatus) string {
	return strings.ReplaceAll(string(status), "_", " ")
}

func (s *ApplicationService) Apply(ctx context.Context, seekerUserID int64, req model.ApplyRequest) (int64, error) {
	errs := validate.Check(validate.Input{
		"job_id":            req.JobID.String(),
		"cover_letter":      req.CoverLetter,
		"expected_salary":   req.ExpectedSalary.String(),
		"availability_date": req.AvailabilityDate,
	},
		validate.Field("job_id", validate.Required().WithMessage("Job id is required"), validate.Numeric()),
		validate.Field("cover_letter", validate.MaxLength(5000)),
		validate.Field("expected_salary", validate.Numeric()),
		validate.Field("availability_date", validate.DateFormat(dateLayout)),
	)
	if errs.Fails() {
		return 0, errs.Err()
	}

	parties, err := s.apps.Apply(ctx, model.NewApplication{
		JobID:            req.JobID.Int64(),
		JobSeekerUserID:  seekerUserID,
		CoverLetter:      strings.TrimSpace(req.CoverLetter),
		ExpectedSalary:   req.ExpectedSalary.Float(),
		AvailabilityDate: parseDate(req.AvailabilityDate),
	}, s.now())
	switch {
	case errors.Is(err, model.ErrAlreadyApplied):
		return 0, apierror.FieldError("job_id", "You have already applied for this job.")
	case errors.Is(err, model.ErrJobNotOpen):
		return 0, apierror.BadRequest("This job is no longer accepting applications.")
	case err != nil:
		return 0, err
	}

	s.notifier.Notify(ctx, model.Notification{
		UserID:  parties.EmployerUserID,
		Title:   "New Application",
		Message: fmt.Sprintf("A new application was submitted for %s.", parties.JobTitle),
		Type:    model.NotificationApplication,
	})
	return parties.ApplicationID, nil
}

// UpdateStatus moves an application along the review graph. Only the
// employer owning the job may do it.
func (s *ApplicationService) UpdateStatus(ctx context.Context, employerUserID int64, req model.StatusUpdateRequest) (model.ApplicationParties, error) {
	statuses := make([]string, 0, len(model.ApplicationStatuses))
	for _, status := range model.ApplicationStatuses {
		statuses = append(statuses, string(status))
	}

	errs := validate.Check(validate.Input{
		"application_id": req.ApplicationID.String(),
		"status":         req.Status,
		"notes":          req.Notes,
	},
		validate.Field("application_id", validate.Required().WithMessage("Application id is required"), validate.Numeric()),
		validate.Field("status", validate.Required(), validate.OneOf(statuses...).WithMessage("Invalid status")),
		validate.Field("notes", validate.MaxLength(1000)),
	)
	if errs.Fails() {
		return model.ApplicationParties{}, errs.Err()
	}

	next := model.ApplicationStatus(req.Status)
	parties, err := s.apps.Transition(ctx, req.ApplicationID.Int64(), employerUserID, next, strings.TrimSpace(req.Notes),
		func(p model.ApplicationParties) error {
			if p.EmployerUserID != employerUserID {
				return model.ErrForbidden
			}
			if !p.Status.CanTransition(next, model.RoleEmployer) {
				return transitionError(p.Status, next)
			}
			return nil
		})
	if err != nil {
		return model.ApplicationParties{}, err
	}

	s.notifier.Notify(ctx, model.Notification{
		UserID:  parties.ApplicantUserID,
		Title:   "Application Update",
		Message: fmt.Sprintf("Your application for %s is now %s.", parties.JobTitle, humanStatus(next)),
		Type:    model.NotificationStatus,
	})
	return parties, nil
}

func (s *ApplicationService) Withdraw(ctx context.Context, seekerUserID int64, req model.WithdrawRequest) (model.ApplicationParties, error) {
	applicationID := req.ApplicationID.Int64()
	if applicationID <= 0 {
		return model.ApplicationParties{}, apierror.FieldError("application_id", "Application id is required")
	}

	parties, err := s.apps.Transition(ctx, applicationID, seekerUserID, model.StatusWithdrawn, "Withdrawn by applicant",
		func(p model.ApplicationParties) error {
			if p.ApplicantUserID != seekerUserID {
				return model.ErrForbidden
			}
			if !p.Status.CanTransition(model.StatusWithdrawn, model.RoleJobSeeker) {
				return transitionError(p.Status, model.StatusWithdrawn)
			}
			return nil
		})
	if err != nil {
		return model.ApplicationParties{}, err
	}

	s.notifier.Notify(ctx, model.Notification{
		UserID:  parties.EmployerUserID,
		Title:   "Application Withdrawn",
		Message: fmt.Sprintf("An applicant withdrew their application for %s.", parties.JobTitle),
		Type:    model.NotificationApplication,
	})
	return parties, nil
}

func transitionError(from model.ApplicationStatus, to model.ApplicationStatus) error {
	return apierror.FieldError("status",
		fmt.Sprintf("Cannot change status from %s to %s.", humanStatus(from), humanStatus(to)))
}

func (s *ApplicationService) ForSeeker(ctx context.Context, seekerUserID int64) ([]model.Application, error) {
	return s.apps.ForSeeker(ctx, seekerUserID)
}

func (s *ApplicationService) ForEmployer(ctx context.Context, employerUserID int64, filter model.ApplicationFilter) ([]model.Application, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apierror.FieldError("status", "Invalid status")
	}
	apps, err := s.apps.ForEmployer(ctx, employerUserID, filter)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		apps[i].NextStatuses = apps[i].Status.NextStatuses()
	}
	return apps, nil
}

// History is visible to the applicant, the owning employer and admins.
func (s *ApplicationService) History(ctx context.Context, viewerID int64, role model.Role, applicationID int64) ([]model.StatusChange, error) {
	if applicationID <= 0 {
		return nil, apierror.FieldError("id", "Application id is required")
	}

	parties, err := s.apps.Parties(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	switch {
	case role == model.RoleAdmin:
	case role == model.RoleJobSeeker && parties.ApplicantUserID == viewerID:
	case role == model.RoleEmployer && parties.EmployerUserID == viewerID:
	default:
		return nil, model.ErrForbidden
	}
	return s.apps.History(ctx, applicationID)
}
