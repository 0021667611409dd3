package query

import (
	"context"
	"time"

	"github.com/ielts-momentum/momentum-hub/internal/domain/activity"
	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
	"github.com/ielts-momentum/momentum-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ADMIN OVERVIEW QUERY
// The admin global dashboard: headline counts (students, admins, active
// today, total actions), the per-day platform-activity series, and the
// most recent activity records.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultRecentActivityLimit bounds the recent-activity panel.
const DefaultRecentActivityLimit = 5

// GetAdminOverviewQuery contains the request parameters.
type GetAdminOverviewQuery struct {
	// RecentLimit is the number of recent records (default 5).
	RecentLimit int
}

// Validate normalizes the parameters.
func (q *GetAdminOverviewQuery) Validate() error {
	if q.RecentLimit <= 0 {
		q.RecentLimit = DefaultRecentActivityLimit
	}
	return nil
}

// ActivityRecordDTO is one recent-activity row.
type ActivityRecordDTO struct {
	Username   string    `json:"username"`
	Day        string    `json:"day"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DayCountDTO is one point in the platform-activity series.
type DayCountDTO struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// AdminOverviewResult is the admin dashboard payload.
type AdminOverviewResult struct {
	TotalStudents int `json:"total_students"`
	TotalAdmins   int `json:"total_admins"`
	ActiveToday   int `json:"active_today"`
	TotalActions  int `json:"total_actions"`

	ActivityPerDay []DayCountDTO       `json:"activity_per_day"`
	Recent         []ActivityRecordDTO `json:"recent"`
}

// GetAdminOverviewHandler handles GetAdminOverviewQuery.
type GetAdminOverviewHandler struct {
	userRepo     user.Repository
	activityRepo activity.Repository
}

// NewGetAdminOverviewHandler creates the handler.
func NewGetAdminOverviewHandler(userRepo user.Repository, activityRepo activity.Repository) *GetAdminOverviewHandler {
	return &GetAdminOverviewHandler{userRepo: userRepo, activityRepo: activityRepo}
}

// Handle assembles the overview.
func (h *GetAdminOverviewHandler) Handle(ctx context.Context, q GetAdminOverviewQuery) (*AdminOverviewResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetAdminOverview", shared.ErrValidation, err.Error(), err)
	}

	students, err := h.userRepo.CountByRole(ctx, user.RoleStudent)
	if err != nil {
		return nil, shared.WrapError("query", "GetAdminOverview", shared.ErrStorage, "failed to count students", err)
	}
	admins, err := h.userRepo.CountByRole(ctx, user.RoleAdmin)
	if err != nil {
		return nil, shared.WrapError("query", "GetAdminOverview", shared.ErrStorage, "failed to count admins", err)
	}
	activeToday, err := h.activityRepo.CountDistinctUsers(ctx, timeutil.Today())
	if err != nil {
		return nil, shared.WrapError("query", "GetAdminOverview", shared.ErrStorage, "failed to count active users", err)
	}
	totalActions, err := h.activityRepo.CountAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetAdminOverview", shared.ErrStorage, "failed to count actions", err)
	}
	perDay, err := h.activityRepo.CountPerDay(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetAdminOverview", shared.ErrStorage, "failed to aggregate activity", err)
	}
	recent, err := h.activityRepo.ListRecent(ctx, q.RecentLimit)
	if err != nil {
		return nil, shared.WrapError("query", "GetAdminOverview", shared.ErrStorage, "failed to list recent activity", err)
	}

	result := &AdminOverviewResult{
		TotalStudents:  students,
		TotalAdmins:    admins,
		ActiveToday:    activeToday,
		TotalActions:   totalActions,
		ActivityPerDay: make([]DayCountDTO, len(perDay)),
		Recent:         make([]ActivityRecordDTO, len(recent)),
	}
	for i, d := range perDay {
		result.ActivityPerDay[i] = DayCountDTO{Day: d.Day, Count: d.Count}
	}
	for i, r := range recent {
		result.Recent[i] = ActivityRecordDTO{
			Username:   r.Username,
			Day:        r.Day,
			Kind:       string(r.Kind),
			OccurredAt: r.OccurredAt,
		}
	}

	return result, nil
}
