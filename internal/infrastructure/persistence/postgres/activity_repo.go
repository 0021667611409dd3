// Package postgres implements the PostgreSQL persistence layer for Momentum Hub.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ielts-momentum/momentum-hub/internal/domain/activity"
	"github.com/ielts-momentum/momentum-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ActivityRepository implements activity.Repository for PostgreSQL. The
// table is append-only; every read is an aggregate over it.
type ActivityRepository struct {
	conn *Connection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(conn *Connection) *ActivityRepository {
	return &ActivityRepository{conn: conn}
}

// Append inserts one activity record.
func (r *ActivityRepository) Append(ctx context.Context, record *activity.Record) error {
	query := `
		INSERT INTO activity_log (id, username, day, kind, challenge_seq, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query,
		record.ID,
		record.Username,
		record.Day,
		string(record.Kind),
		record.ChallengeSeq,
		record.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append activity record: %w", err)
	}

	return nil
}

// CountDistinctDays counts a user's distinct active days (the streak metric).
func (r *ActivityRepository) CountDistinctDays(ctx context.Context, username string) (int, error) {
	query := `SELECT COUNT(DISTINCT day) FROM activity_log WHERE username = $1`

	var count int
	if err := r.conn.QueryRow(ctx, query, username).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active days: %w", err)
	}

	return count, nil
}

// CountDistinctUsers counts how many distinct users were active on a day.
func (r *ActivityRepository) CountDistinctUsers(ctx context.Context, day string) (int, error) {
	query := `SELECT COUNT(DISTINCT username) FROM activity_log WHERE day = $1`

	var count int
	if err := r.conn.QueryRow(ctx, query, day).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}

	return count, nil
}

// CountAll counts all recorded activity.
func (r *ActivityRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM activity_log`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}

	return count, nil
}

// CountPerDay returns the platform-wide activity series, day ascending.
func (r *ActivityRepository) CountPerDay(ctx context.Context) ([]activity.DayCount, error) {
	query := `
		SELECT day, COUNT(*) AS actions
		FROM activity_log
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activity: %w", err)
	}
	defer rows.Close()

	var counts []activity.DayCount
	for rows.Next() {
		var (
			day   time.Time
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		counts = append(counts, activity.DayCount{Day: timeutil.DayOf(day), Count: count})
	}

	return counts, rows.Err()
}

// ListRecent returns the newest records first.
func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]*activity.Record, error) {
	query := `
		SELECT id, username, day, kind, challenge_seq, occurred_at
		FROM activity_log
		ORDER BY occurred_at DESC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activity: %w", err)
	}
	defer rows.Close()

	var records []*activity.Record
	for rows.Next() {
		var (
			rec  activity.Record
			day  time.Time
			kind string
		)
		err := rows.Scan(&rec.ID, &rec.Username, &day, &kind, &rec.ChallengeSeq, &rec.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity record: %w", err)
		}
		rec.Day = timeutil.DayOf(day)
		rec.Kind = activity.Kind(kind)
		records = append(records, &rec)
	}

	return records, rows.Err()
}
