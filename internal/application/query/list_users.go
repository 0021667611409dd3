package query

import (
	"context"
	"strings"
	"time"

	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST USERS QUERY
// The admin user table. Password hashes never cross this boundary: the
// repository hands back entities, this query maps them to hash-free DTOs.
// ══════════════════════════════════════════════════════════════════════════════

// ListUsersQuery contains the request parameters.
type ListUsersQuery struct {
	// Search filters usernames by case-insensitive substring when non-empty.
	Search string
}

// UserDTO is one admin-table row.
type UserDTO struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	TargetScore float64   `json:"target_score"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListUsersResult contains the rows ordered by username ascending.
type ListUsersResult struct {
	Users []UserDTO `json:"users"`
}

// ListUsersHandler handles ListUsersQuery.
type ListUsersHandler struct {
	userRepo user.Repository
}

// NewListUsersHandler creates the handler.
func NewListUsersHandler(userRepo user.Repository) *ListUsersHandler {
	return &ListUsersHandler{userRepo: userRepo}
}

// Handle lists the users.
func (h *ListUsersHandler) Handle(ctx context.Context, q ListUsersQuery) (*ListUsersResult, error) {
	users, err := h.userRepo.List(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "ListUsers", shared.ErrStorage, "failed to list users", err)
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		if search != "" && !strings.Contains(strings.ToLower(u.Username), search) {
			continue
		}
		dtos = append(dtos, UserDTO{
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Role:        string(u.Role),
			TargetScore: float64(u.TargetScore),
			CreatedAt:   u.CreatedAt,
		})
	}

	return &ListUsersResult{Users: dtos}, nil
}
