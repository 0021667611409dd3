package challenge

import (
	"context"
	"time"
)

// Repository defines the persistence contract for challenges.
// The implementation lives in the infrastructure layer and must provide the
// two storage-level atomic primitives the engine relies on:
//
//   - SeedIfAbsent is an idempotent upsert keyed by (username, day, seq):
//     concurrent first-access races for the same day resolve to exactly one
//     visible challenge set, a duplicate seed attempt fails harmlessly.
//   - MarkCompleted is a conditional single-row transition that only applies
//     while the challenge is still pending, so two concurrent completion
//     attempts produce exactly one effective transition.
type Repository interface {
	// ListByUserDay returns the challenges for a user and day ordered by
	// ascending sequence id. An empty slice means the day has not been
	// seeded yet.
	ListByUserDay(ctx context.Context, username, day string) ([]*Challenge, error)

	// SeedIfAbsent inserts the given challenges, silently skipping any that
	// already exist for their (username, day, seq) key.
	SeedIfAbsent(ctx context.Context, set []*Challenge) error

	// MarkCompleted atomically transitions a pending challenge to completed
	// with the given timestamp. Returns true if the transition happened,
	// false if the challenge does not exist or was already completed.
	MarkCompleted(ctx context.Context, username, day string, seq int, completedAt time.Time) (bool, error)

	// TotalCompletedXP returns the sum of XP over all completed challenges
	// for a user, across all days.
	TotalCompletedXP(ctx context.Context, username string) (int, error)

	// TopByCompletedXP returns up to limit (username, total XP) pairs
	// ranked by total completed XP descending, ties broken by username
	// ascending. Users with no completed challenges are not included.
	TopByCompletedXP(ctx context.Context, limit int) ([]XPTotal, error)
}

// XPTotal is one leaderboard aggregation row.
type XPTotal struct {
	Username string
	TotalXP  int
}
