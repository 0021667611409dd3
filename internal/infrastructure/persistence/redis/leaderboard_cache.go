// Package redis implements the optional Redis caching layer for Momentum Hub.
package redis

import (
	"context"
	"fmt"

	"github.com/ielts-momentum/momentum-hub/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// keyLeaderboardTop holds the last computed full ranking as JSON.
const keyLeaderboardTop = "leaderboard:top"

// LeaderboardCache caches the ranked leaderboard view. It implements both
// query.LeaderboardCache (read side) and the completion command's
// invalidator (write side). The payload records the limit the ranking was
// computed for, so a board with fewer ranked users than the request still
// serves hits instead of missing forever.
type LeaderboardCache struct {
	cache *Cache
}

// cachedBoard is the JSON payload stored under keyLeaderboardTop.
type cachedBoard struct {
	Limit   int                         `json:"limit"`
	Entries []query.LeaderboardEntryDTO `json:"entries"`
}

// NewLeaderboardCache creates a new LeaderboardCache instance.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// GetTop returns up to limit cached entries, or ErrCacheMiss.
func (l *LeaderboardCache) GetTop(ctx context.Context, limit int) ([]query.LeaderboardEntryDTO, error) {
	var board cachedBoard
	if err := l.cache.Get(ctx, keyLeaderboardTop, &board); err != nil {
		return nil, err
	}

	// Enough entries to truncate, or a board computed for at least this
	// limit (fewer entries then means everyone with XP is already ranked).
	// Anything else may be missing tail entries; recompute from storage.
	if len(board.Entries) < limit && board.Limit < limit {
		return nil, ErrCacheMiss
	}

	entries := board.Entries
	if limit < len(entries) {
		entries = entries[:limit]
	}

	return entries, nil
}

// SetTop replaces the cached ranking computed for the given limit.
func (l *LeaderboardCache) SetTop(ctx context.Context, limit int, entries []query.LeaderboardEntryDTO) error {
	board := cachedBoard{Limit: limit, Entries: entries}
	if err := l.cache.Set(ctx, keyLeaderboardTop, board, TTLLeaderboardCache); err != nil {
		return fmt.Errorf("failed to cache leaderboard: %w", err)
	}
	return nil
}

// InvalidateLeaderboard drops the cached ranking after an XP change.
func (l *LeaderboardCache) InvalidateLeaderboard(ctx context.Context) error {
	return l.cache.Delete(ctx, keyLeaderboardTop)
}
