// Package postgres implements the PostgreSQL persistence layer for Momentum Hub.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ielts-momentum/momentum-hub/internal/domain/score"
	"github.com/ielts-momentum/momentum-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCORE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ScoreRepository implements score.Repository for PostgreSQL. Entries are
// insert-only: there is no update or delete path.
type ScoreRepository struct {
	conn *Connection
}

// NewScoreRepository creates a new ScoreRepository.
func NewScoreRepository(conn *Connection) *ScoreRepository {
	return &ScoreRepository{conn: conn}
}

// Insert persists one immutable score entry.
func (r *ScoreRepository) Insert(ctx context.Context, entry *score.Entry) error {
	query := `
		INSERT INTO score_entries (
			id, username, test_day, listening, reading, writing, speaking, overall, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		entry.ID,
		entry.Username,
		entry.TestDay,
		entry.Listening.Float(),
		entry.Reading.Float(),
		entry.Writing.Float(),
		entry.Speaking.Float(),
		entry.Overall.Float(),
		entry.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert score entry: %w", err)
	}

	return nil
}

// ListByUser returns a user's entries ordered by test day ascending.
func (r *ScoreRepository) ListByUser(ctx context.Context, username string) ([]*score.Entry, error) {
	query := `
		SELECT id, username, test_day, listening, reading, writing, speaking, overall, created_at
		FROM score_entries
		WHERE username = $1
		ORDER BY test_day, created_at
	`

	rows, err := r.conn.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list score entries: %w", err)
	}
	defer rows.Close()

	var entries []*score.Entry
	for rows.Next() {
		var (
			e       score.Entry
			testDay time.Time
			bands   [5]float64
		)

		err := rows.Scan(
			&e.ID,
			&e.Username,
			&testDay,
			&bands[0],
			&bands[1],
			&bands[2],
			&bands[3],
			&bands[4],
			&e.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}

		e.TestDay = timeutil.DayOf(testDay)
		e.Listening = score.Band(bands[0])
		e.Reading = score.Band(bands[1])
		e.Writing = score.Band(bands[2])
		e.Speaking = score.Band(bands[3])
		e.Overall = score.Band(bands[4])

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
