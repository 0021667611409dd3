package activity

import "context"

// Repository defines the persistence contract for the activity log.
// The log is append-only: there is deliberately no update or delete
// operation in this interface.
type Repository interface {
	// Append persists one activity record.
	Append(ctx context.Context, record *Record) error

	// CountDistinctDays returns the number of distinct study days on which
	// the user has at least one record. This is the platform's "streak"
	// figure: a count of active days, not a consecutive-day run.
	CountDistinctDays(ctx context.Context, username string) (int, error)

	// CountDistinctUsers returns the number of distinct users with at
	// least one record on the given day ("active today" on the admin
	// dashboard).
	CountDistinctUsers(ctx context.Context, day string) (int, error)

	// CountAll returns the total number of records.
	CountAll(ctx context.Context) (int, error)

	// CountPerDay returns per-day record counts ordered by day ascending
	// (the platform-activity chart series).
	CountPerDay(ctx context.Context) ([]DayCount, error)

	// ListRecent returns the most recent records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
}
