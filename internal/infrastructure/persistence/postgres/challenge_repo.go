// Package postgres implements the PostgreSQL persistence layer for Momentum Hub.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ielts-momentum/momentum-hub/internal/domain/challenge"
	"github.com/ielts-momentum/momentum-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHALLENGE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ChallengeRepository implements challenge.Repository for PostgreSQL.
// Both atomic primitives of the contract map onto single statements: the
// seed upsert is INSERT ... ON CONFLICT DO NOTHING on the (username, day,
// seq) primary key, and the completion transition is a conditional UPDATE
// guarded by completed = FALSE.
type ChallengeRepository struct {
	conn *Connection
}

// NewChallengeRepository creates a new ChallengeRepository.
func NewChallengeRepository(conn *Connection) *ChallengeRepository {
	return &ChallengeRepository{conn: conn}
}

// ListByUserDay returns a user's challenges for one day, sequence ascending.
func (r *ChallengeRepository) ListByUserDay(ctx context.Context, username, day string) ([]*challenge.Challenge, error) {
	query := `
		SELECT username, day, seq, skill, difficulty, duration, xp,
			   completed, completed_at, created_at
		FROM challenges
		WHERE username = $1 AND day = $2
		ORDER BY seq
	`

	rows, err := r.conn.Query(ctx, query, username, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*challenge.Challenge
	for rows.Next() {
		var (
			c           challenge.Challenge
			dayValue    time.Time
			skill       string
			difficulty  string
			completed   bool
			completedAt *time.Time
		)

		err := rows.Scan(
			&c.Username,
			&dayValue,
			&c.Seq,
			&skill,
			&difficulty,
			&c.Duration,
			&c.XP,
			&completed,
			&completedAt,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge row: %w", err)
		}

		c.Day = timeutil.DayOf(dayValue)
		c.Skill = challenge.Skill(skill)
		c.Difficulty = challenge.Difficulty(difficulty)
		if completed && completedAt != nil {
			c.State = challenge.CompletedAt(*completedAt)
		} else {
			c.State = challenge.Pending()
		}

		challenges = append(challenges, &c)
	}

	return challenges, rows.Err()
}

// SeedIfAbsent inserts the challenge set, skipping rows whose
// (username, day, seq) key already exists.
func (r *ChallengeRepository) SeedIfAbsent(ctx context.Context, set []*challenge.Challenge) error {
	query := `
		INSERT INTO challenges (username, day, seq, skill, difficulty, duration, xp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (username, day, seq) DO NOTHING
	`

	for _, c := range set {
		_, err := r.conn.Exec(ctx, query,
			c.Username,
			c.Day,
			c.Seq,
			string(c.Skill),
			string(c.Difficulty),
			c.Duration,
			c.XP,
			c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to seed challenge %d: %w", c.Seq, err)
		}
	}

	return nil
}

// MarkCompleted performs the pending-to-completed transition. The WHERE
// clause makes it a compare-and-set: of any number of concurrent attempts
// exactly one sees RowsAffected() == 1.
func (r *ChallengeRepository) MarkCompleted(ctx context.Context, username, day string, seq int, completedAt time.Time) (bool, error) {
	query := `
		UPDATE challenges
		SET completed = TRUE, completed_at = $4
		WHERE username = $1 AND day = $2 AND seq = $3 AND completed = FALSE
	`

	tag, err := r.conn.Exec(ctx, query, username, day, seq, completedAt)
	if err != nil {
		return false, fmt.Errorf("failed to mark challenge completed: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// TotalCompletedXP sums a user's completed-challenge XP across all days.
func (r *ChallengeRepository) TotalCompletedXP(ctx context.Context, username string) (int, error) {
	query := `
		SELECT COALESCE(SUM(xp), 0)
		FROM challenges
		WHERE username = $1 AND completed = TRUE
	`

	var total int
	if err := r.conn.QueryRow(ctx, query, username).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum completed XP: %w", err)
	}

	return total, nil
}

// TopByCompletedXP ranks users by completed XP descending, username
// ascending on ties.
func (r *ChallengeRepository) TopByCompletedXP(ctx context.Context, limit int) ([]challenge.XPTotal, error) {
	query := `
		SELECT username, SUM(xp) AS total_xp
		FROM challenges
		WHERE completed = TRUE
		GROUP BY username
		ORDER BY total_xp DESC, username ASC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leaderboard: %w", err)
	}
	defer rows.Close()

	var totals []challenge.XPTotal
	for rows.Next() {
		var t challenge.XPTotal
		if err := rows.Scan(&t.Username, &t.TotalXP); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}
