package query

import (
	"context"
	"errors"

	"github.com/ielts-momentum/momentum-hub/internal/domain/score"
	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SCORE HISTORY QUERY
// Returns a user's mock-test entries ordered by test day ascending. Every
// call re-queries storage, so the caller always sees the current persisted
// state rather than a cached snapshot.
// ══════════════════════════════════════════════════════════════════════════════

// GetScoreHistoryQuery identifies the user.
type GetScoreHistoryQuery struct {
	Username string
}

// Validate checks the query.
func (q *GetScoreHistoryQuery) Validate() error {
	if q.Username == "" {
		return errors.New("get_score_history: username is required")
	}
	return nil
}

// ScoreEntryDTO is one mock-test submission.
type ScoreEntryDTO struct {
	ID        string  `json:"id"`
	TestDay   string  `json:"test_day"`
	Listening float64 `json:"listening"`
	Reading   float64 `json:"reading"`
	Writing   float64 `json:"writing"`
	Speaking  float64 `json:"speaking"`
	Overall   float64 `json:"overall"`
}

// ScoreHistoryResult contains the entries, oldest test day first.
type ScoreHistoryResult struct {
	Username string          `json:"username"`
	Entries  []ScoreEntryDTO `json:"entries"`
}

// GetScoreHistoryHandler handles GetScoreHistoryQuery.
type GetScoreHistoryHandler struct {
	scoreRepo score.Repository
}

// NewGetScoreHistoryHandler creates the handler.
func NewGetScoreHistoryHandler(scoreRepo score.Repository) *GetScoreHistoryHandler {
	return &GetScoreHistoryHandler{scoreRepo: scoreRepo}
}

// Handle loads the history.
func (h *GetScoreHistoryHandler) Handle(ctx context.Context, q GetScoreHistoryQuery) (*ScoreHistoryResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetScoreHistory", shared.ErrValidation, err.Error(), err)
	}

	entries, err := h.scoreRepo.ListByUser(ctx, q.Username)
	if err != nil {
		return nil, shared.WrapError("query", "GetScoreHistory", shared.ErrStorage, "failed to list score entries", err)
	}

	dtos := make([]ScoreEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = ScoreEntryDTO{
			ID:        e.ID,
			TestDay:   e.TestDay,
			Listening: e.Listening.Float(),
			Reading:   e.Reading.Float(),
			Writing:   e.Writing.Float(),
			Speaking:  e.Speaking.Float(),
			Overall:   e.Overall.Float(),
		}
	}

	return &ScoreHistoryResult{Username: q.Username, Entries: dtos}, nil
}
