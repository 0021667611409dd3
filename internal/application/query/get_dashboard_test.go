package query

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ielts-momentum/momentum-hub/internal/domain/activity"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
)

func appendLogin(t *testing.T, repo *fakeActivityRepo, username, day string) {
	t.Helper()
	rec, err := activity.NewRecord(uuid.NewString(), username, day, activity.KindLogin, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), rec))
}

func TestGetDashboard_ComposesHeader(t *testing.T) {
	users := newFakeUserRepo()
	challenges := newFakeChallengeRepo()
	activities := newFakeActivityRepo()
	handler := NewGetDashboardHandler(users, challenges, activities)
	ctx := context.Background()

	require.NoError(t, users.add("demo", "Alex Student", user.RoleStudent))

	// Completed 1+2 on one day and 1 on another: 10+20+10 XP.
	require.NoError(t, challenges.completeSet("demo", "2026-08-30", 1, 2))
	require.NoError(t, challenges.completeSet("demo", "2026-08-31", 1))

	appendLogin(t, activities, "demo", "2026-08-30")
	appendLogin(t, activities, "demo", "2026-08-31")
	appendLogin(t, activities, "demo", "2026-08-31")

	res, err := handler.Handle(ctx, GetDashboardQuery{Username: "demo"})
	require.NoError(t, err)

	assert.Equal(t, "demo", res.Username)
	assert.Equal(t, "Alex Student", res.DisplayName)
	assert.Equal(t, 40, res.TotalXP)
	assert.Equal(t, 1, res.Level)
	assert.Equal(t, 7.5, res.TargetScore)

	// Two distinct active days; repeated logins on a day count once.
	assert.Equal(t, 2, res.Streak)
}

func TestGetDashboard_StreakCountsGapDays(t *testing.T) {
	users := newFakeUserRepo()
	activities := newFakeActivityRepo()
	handler := NewGetDashboardHandler(users, newFakeChallengeRepo(), activities)

	require.NoError(t, users.add("demo", "Alex Student", user.RoleStudent))

	// Active days with a week-long gap between them still both count.
	appendLogin(t, activities, "demo", "2026-08-01")
	appendLogin(t, activities, "demo", "2026-08-10")

	res, err := handler.Handle(context.Background(), GetDashboardQuery{Username: "demo"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Streak)
}

func TestGetDashboard_LevelBoundaries(t *testing.T) {
	users := newFakeUserRepo()
	challenges := newFakeChallengeRepo()
	handler := NewGetDashboardHandler(users, challenges, newFakeActivityRepo())
	ctx := context.Background()

	require.NoError(t, users.add("demo", "Alex Student", user.RoleStudent))

	// 60 XP per full day; two full days = 120 XP crosses the level-2 line.
	require.NoError(t, challenges.completeSet("demo", "2026-08-30", 1, 2, 3))
	require.NoError(t, challenges.completeSet("demo", "2026-08-31", 1, 2, 3))

	res, err := handler.Handle(ctx, GetDashboardQuery{Username: "demo"})
	require.NoError(t, err)
	assert.Equal(t, 120, res.TotalXP)
	assert.Equal(t, 2, res.Level)
}

func TestGetDashboard_FreshUser(t *testing.T) {
	users := newFakeUserRepo()
	handler := NewGetDashboardHandler(users, newFakeChallengeRepo(), newFakeActivityRepo())

	require.NoError(t, users.add("fresh", "Fresh", user.RoleStudent))

	res, err := handler.Handle(context.Background(), GetDashboardQuery{Username: "fresh"})
	require.NoError(t, err)
	assert.Zero(t, res.TotalXP)
	assert.Equal(t, 1, res.Level)
	assert.Zero(t, res.Streak)
}

func TestGetDashboard_UnknownUser(t *testing.T) {
	handler := NewGetDashboardHandler(newFakeUserRepo(), newFakeChallengeRepo(), newFakeActivityRepo())

	_, err := handler.Handle(context.Background(), GetDashboardQuery{Username: "ghost"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestGetDashboard_Validation(t *testing.T) {
	handler := NewGetDashboardHandler(newFakeUserRepo(), newFakeChallengeRepo(), newFakeActivityRepo())

	_, err := handler.Handle(context.Background(), GetDashboardQuery{})
	assert.Error(t, err)
}
