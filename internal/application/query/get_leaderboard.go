package query

import (
	"context"
	"errors"

	"github.com/ielts-momentum/momentum-hub/internal/domain/challenge"
	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Ranks users by total completed-challenge XP descending, ties broken by
// username ascending. Users with zero completed XP never appear. Display
// names come from a username join that tolerates orphans: a deleted user's
// rows rank under the bare username.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultLeaderboardLimit is used when the query doesn't set a limit.
const DefaultLeaderboardLimit = 5

// MaxLeaderboardLimit caps the page size.
const MaxLeaderboardLimit = 100

// GetLeaderboardQuery contains the request parameters.
type GetLeaderboardQuery struct {
	// Limit is the number of entries (default 5, max 100).
	Limit int
}

// Validate checks and normalizes the parameters.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("get_leaderboard: limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = DefaultLeaderboardLimit
	}
	if q.Limit > MaxLeaderboardLimit {
		q.Limit = MaxLeaderboardLimit
	}
	return nil
}

// LeaderboardEntryDTO is one leaderboard row.
type LeaderboardEntryDTO struct {
	// Rank is the position, starting at 1.
	Rank int `json:"rank"`

	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	TotalXP     int    `json:"total_xp"`
	Level       int    `json:"level"`
}

// LeaderboardResult contains the ranked entries.
type LeaderboardResult struct {
	Entries []LeaderboardEntryDTO `json:"entries"`

	// FromCache is true when the result came from the read-side cache.
	FromCache bool `json:"-"`
}

// LeaderboardCache is an optional read-side cache for the top-N view.
// Implementations are best-effort: any error falls through to storage.
type LeaderboardCache interface {
	// GetTop returns cached entries, or a miss error.
	GetTop(ctx context.Context, limit int) ([]LeaderboardEntryDTO, error)

	// SetTop replaces the cached entries. limit is the request the entries
	// were computed for; fewer entries than limit means the board is
	// complete and implementations may serve any request up to limit.
	SetTop(ctx context.Context, limit int, entries []LeaderboardEntryDTO) error
}

// GetLeaderboardHandler handles GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	challengeRepo challenge.Repository
	userRepo      user.Repository
	cache         LeaderboardCache
}

// NewGetLeaderboardHandler creates the handler. cache may be nil.
func NewGetLeaderboardHandler(challengeRepo challenge.Repository, userRepo user.Repository, cache LeaderboardCache) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{
		challengeRepo: challengeRepo,
		userRepo:      userRepo,
		cache:         cache,
	}
}

// Handle builds the leaderboard.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*LeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrValidation, err.Error(), err)
	}

	if h.cache != nil {
		if cached, err := h.cache.GetTop(ctx, q.Limit); err == nil && len(cached) > 0 {
			return &LeaderboardResult{Entries: cached, FromCache: true}, nil
		}
	}

	totals, err := h.challengeRepo.TopByCompletedXP(ctx, q.Limit)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrStorage, "failed to aggregate XP", err)
	}

	usernames := make([]string, len(totals))
	for i, t := range totals {
		usernames[i] = t.Username
	}

	names, err := h.userRepo.GetDisplayNames(ctx, usernames)
	if err != nil {
		// Orphan-resilience: the board still renders with bare usernames.
		names = map[string]string{}
	}

	entries := make([]LeaderboardEntryDTO, len(totals))
	for i, t := range totals {
		name, ok := names[t.Username]
		if !ok {
			name = t.Username
		}
		entries[i] = LeaderboardEntryDTO{
			Rank:        i + 1,
			Username:    t.Username,
			DisplayName: name,
			TotalXP:     t.TotalXP,
			Level:       challenge.LevelForXP(t.TotalXP),
		}
	}

	if h.cache != nil && len(entries) > 0 {
		_ = h.cache.SetTop(ctx, q.Limit, entries)
	}

	return &LeaderboardResult{Entries: entries}, nil
}
