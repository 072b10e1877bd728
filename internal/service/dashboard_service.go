package service

import (
	"context"

	"workconnect/internal/model"
)

const activitiesDefault = 5

type DashboardStore interface {
	SeekerStats(ctx context.Context, userID int64) (map[string]int, error)
	EmployerStats(ctx context.Context, userID int64) (map[string]int, error)
	Platform(ctx context.Context) (model.PlatformStats, error)
	Activities(ctx context.Context, userID int64, role model.Role, limit int) ([]model.Activity, error)
}

type DashboardService struct {
	stats DashboardStore
}

func NewDashboardService(stats DashboardStore) *DashboardService {
	return &DashboardService{stats: stats}
}

// Stats returns the counters shown on the caller's dashboard.
func (s *DashboardService) Stats(ctx context.Context, userID int64, role model.Role) (any, error) {
	switch role {
	case model.RoleJobSeeker:
		return s.stats.SeekerStats(ctx, userID)
	case model.RoleEmployer:
		return s.stats.EmployerStats(ctx, userID)
	case model.RoleAdmin:
		return s.stats.Platform(ctx)
	default:
		return nil, model.ErrForbidden
	}
}

func (s *DashboardService) Activities(ctx context.Context, userID int64, role model.Role, limit int) ([]model.Activity, error) {
	activities, err := s.stats.Activities(ctx, userID, role, clampLimit(limit, activitiesDefault, maxPageSize))
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []model.Activity{}
	}
	return activities, nil
}
