// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"errors"

	"github.com/ielts-momentum/momentum-hub/internal/domain/activity"
	"github.com/ielts-momentum/momentum-hub/internal/domain/challenge"
	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// The student dashboard header: total XP over all completed challenges,
// the level derived from it, the activity streak (distinct active days),
// and the profile's target band. This is the composition point the UI
// layer consumes.
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardQuery identifies the user.
type GetDashboardQuery struct {
	Username string
}

// Validate checks the query.
func (q *GetDashboardQuery) Validate() error {
	if q.Username == "" {
		return errors.New("get_dashboard: username is required")
	}
	return nil
}

// DashboardResult is the dashboard header data.
type DashboardResult struct {
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	TotalXP     int     `json:"total_xp"`
	Level       int     `json:"level"`
	Streak      int     `json:"streak"`
	TargetScore float64 `json:"target_score"`
}

// GetDashboardHandler handles GetDashboardQuery.
type GetDashboardHandler struct {
	userRepo      user.Repository
	challengeRepo challenge.Repository
	activityRepo  activity.Repository
}

// NewGetDashboardHandler creates the handler.
func NewGetDashboardHandler(userRepo user.Repository, challengeRepo challenge.Repository, activityRepo activity.Repository) *GetDashboardHandler {
	return &GetDashboardHandler{
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
		activityRepo:  activityRepo,
	}
}

// Handle assembles the dashboard.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*DashboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetDashboard", shared.ErrValidation, err.Error(), err)
	}

	u, err := h.userRepo.GetByUsername(ctx, q.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, shared.WrapError("query", "GetDashboard", shared.ErrNotFound, "user not found", err)
		}
		return nil, shared.WrapError("query", "GetDashboard", shared.ErrStorage, "failed to load user", err)
	}

	totalXP, err := h.challengeRepo.TotalCompletedXP(ctx, q.Username)
	if err != nil {
		return nil, shared.WrapError("query", "GetDashboard", shared.ErrStorage, "failed to sum XP", err)
	}

	// The streak is a count of distinct active days, not a consecutive-day
	// run. A user active on day 1 and day 10 reports streak=2.
	streak, err := h.activityRepo.CountDistinctDays(ctx, q.Username)
	if err != nil {
		return nil, shared.WrapError("query", "GetDashboard", shared.ErrStorage, "failed to count active days", err)
	}

	return &DashboardResult{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		TotalXP:     totalXP,
		Level:       challenge.LevelForXP(totalXP),
		Streak:      streak,
		TargetScore: float64(u.TargetScore),
	}, nil
}
