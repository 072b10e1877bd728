package service

import (
	"context"
	"fmt"
	"strings"

	"workconnect/internal/database"
	"workconnect/internal/model"
	"workconnect/internal/validate"
	"workconnect/pkg/apierror"
)

type AdminUserStore interface {
	List(ctx context.Context, filter model.UserFilter) ([]model.User, int, error)
	SetActive(ctx context.Context, userID int64, active bool) error
}

type JobReviewStore interface {
	Pending(ctx context.Context) ([]model.Job, error)
	Review(ctx context.Context, jobID int64, reviewerID int64, status model.JobStatus, notes string) (model.JobReview, error)
}

type PlatformStatsStore interface {
	Platform(ctx context.Context) (model.PlatformStats, error)
}

// PoolStats exposes connection pool counters.
type PoolStats interface {
	Stats() database.Stats
}

type AdminService struct {
	users    AdminUserStore
	jobs     JobReviewStore
	stats    PlatformStatsStore
	pool     PoolStats
	notifier Notifier
}

func NewAdminService(users AdminUserStore, jobs JobReviewStore, stats PlatformStatsStore, pool PoolStats, notifier Notifier) *AdminService {
	return &AdminService{users: users, jobs: jobs, stats: stats, pool: pool, notifier: notifier}
}

func (s *AdminService) Users(ctx context.Context, filter model.UserFilter) (model.Page[model.User], error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return model.Page[model.User]{}, apierror.FieldError("user_type", "User type has an invalid value")
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Page, filter.Limit = pageBounds(filter.Page, filter.Limit)

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return model.Page[model.User]{}, err
	}
	return model.Page[model.User]{Items: users, Meta: model.NewMeta(filter.Page, filter.Limit, total)}, nil
}

// SetUserStatus activates or deactivates an account. Admins cannot lock themselves out.
func (s *AdminService) SetUserStatus(ctx context.Context, adminID int64, req model.UserStatusRequest) error {
	errs := validate.Check(validate.Input{
		"user_id":   req.UserID.String(),
		"is_active": req.IsActive.String(),
	},
		validate.Field("user_id", validate.Required().WithMessage("User id is required"), validate.Numeric()),
		validate.Field("is_active", validate.Required(), validate.OneOf("true", "false", "1", "0")),
	)
	if errs.Fails() {
		return errs.Err()
	}

	userID := req.UserID.Int64()
	if userID == adminID {
		return apierror.BadRequest("You cannot change the status of your own account.")
	}
	return s.users.SetActive(ctx, userID, req.IsActive.Bool())
}

func (s *AdminService) PendingJobs(ctx context.Context) ([]model.Job, error) {
	return s.jobs.Pending(ctx)
}

func (s *AdminService) ApproveJob(ctx context.Context, adminID int64, req model.JobReviewRequest) error {
	jobID, err := jobRef(model.JobRefRequest{JobID: req.JobID})
	if err != nil {
		return err
	}

	review, err := s.jobs.Review(ctx, jobID, adminID, model.JobStatusPublished, strings.TrimSpace(req.Reason))
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, model.Notification{
		UserID:  review.EmployerUserID,
		Title:   "Job Approved",
		Message: fmt.Sprintf("Your job posting %s is now live.", review.Title),
		Type:    model.NotificationJob,
	})
	return nil
}

func (s *AdminService) RejectJob(ctx context.Context, adminID int64, req model.JobReviewRequest) error {
	errs := validate.Check(validate.Input{
		"job_id": req.JobID.String(),
		"reason": req.Reason,
	},
		validate.Field("job_id", validate.Required().WithMessage("Job id is required"), validate.Numeric()),
		validate.Field("reason", validate.Required().WithMessage("A rejection reason is required"), validate.MaxLength(1000)),
	)
	if errs.Fails() {
		return errs.Err()
	}

	reason := strings.TrimSpace(req.Reason)
	review, err := s.jobs.Review(ctx, req.JobID.Int64(), adminID, model.JobStatusRejected, reason)
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, model.Notification{
		UserID:  review.EmployerUserID,
		Title:   "Job Rejected",
		Message: fmt.Sprintf("Your job posting %s was rejected: %s", review.Title, reason),
		Type:    model.NotificationJob,
	})
	return nil
}

func (s *AdminService) Stats(ctx context.Context) (model.PlatformStats, error) {
	return s.stats.Platform(ctx)
}

func (s *AdminService) DBStats() database.Stats {
	if s.pool == nil {
		return database.Stats{}
	}
	return s.pool.Stats()
}
