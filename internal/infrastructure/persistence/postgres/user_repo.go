// Package postgres implements the PostgreSQL persistence layer for Momentum Hub.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create inserts a new account. A taken username maps to
// user.ErrUserAlreadyExists via the primary key violation.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			username, password_hash, display_name, role,
			target_score, learning_time, difficulty, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.Exec(ctx, query,
		u.Username,
		u.PasswordHash,
		u.DisplayName,
		string(u.Role),
		float64(u.TargetScore),
		u.Settings.LearningTime,
		u.Settings.Difficulty,
		u.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByUsername returns an account by its username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `
		SELECT username, password_hash, display_name, role,
			   target_score, learning_time, difficulty, created_at
		FROM users
		WHERE username = $1
	`

	row := r.conn.QueryRow(ctx, query, username)
	return r.scanUser(row)
}

// Update persists a modified account.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET password_hash = $2,
			display_name = $3,
			role = $4,
			target_score = $5,
			learning_time = $6,
			difficulty = $7
		WHERE username = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		u.Username,
		u.PasswordHash,
		u.DisplayName,
		string(u.Role),
		float64(u.TargetScore),
		u.Settings.LearningTime,
		u.Settings.Difficulty,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// Delete removes an account. Challenge, score, and activity rows for the
// username are left behind.
func (r *UserRepository) Delete(ctx context.Context, username string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// List returns all accounts ordered by username.
func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	query := `
		SELECT username, password_hash, display_name, role,
			   target_score, learning_time, difficulty, created_at
		FROM users
		ORDER BY username
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// GetDisplayNames resolves usernames to display names. Usernames without an
// account row are simply absent from the result.
func (r *UserRepository) GetDisplayNames(ctx context.Context, usernames []string) (map[string]string, error) {
	names := make(map[string]string, len(usernames))
	if len(usernames) == 0 {
		return names, nil
	}

	query := `SELECT username, display_name FROM users WHERE username = ANY($1)`

	rows, err := r.conn.Query(ctx, query, usernames)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve display names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var username, displayName string
		if err := rows.Scan(&username, &displayName); err != nil {
			return nil, fmt.Errorf("failed to scan display name row: %w", err)
		}
		names[username] = displayName
	}

	return names, rows.Err()
}

// CountByRole counts accounts with the given role.
func (r *UserRepository) CountByRole(ctx context.Context, role user.Role) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// scanUser reads one account row.
func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var (
		u           user.User
		role        string
		targetScore float64
	)

	err := row.Scan(
		&u.Username,
		&u.PasswordHash,
		&u.DisplayName,
		&role,
		&targetScore,
		&u.Settings.LearningTime,
		&u.Settings.Difficulty,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}

	u.Role = user.Role(role)
	u.TargetScore = user.TargetScore(targetScore)

	return &u, nil
}
