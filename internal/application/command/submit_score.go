package command

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ielts-momentum/momentum-hub/internal/domain/score"
	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT SCORE COMMAND
// Validates the four sub-scores, computes the official overall band, and
// persists an immutable score entry. The overall is computed exactly once
// here and never recomputed from the sub-scores afterwards.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitScoreCommand carries one mock-test submission.
type SubmitScoreCommand struct {
	// Username is the authenticated user.
	Username string

	// TestDay is the study-day key of the mock test.
	TestDay string

	// Sub-scores, each in [0, 9] in 0.5 steps.
	Listening float64
	Reading   float64
	Writing   float64
	Speaking  float64
}

// Validate checks the command shape. Band range/step validation happens in
// the domain constructor.
func (c *SubmitScoreCommand) Validate() error {
	if c.Username == "" {
		return errors.New("submit_score: username is required")
	}
	if c.TestDay == "" {
		return errors.New("submit_score: test day is required")
	}
	if !timeutil.IsValidDay(c.TestDay) {
		return errors.New("submit_score: invalid test day")
	}
	return nil
}

// SubmitScoreResult reports the persisted entry.
type SubmitScoreResult struct {
	EntryID string
	Overall float64
}

// SubmitScoreHandler handles SubmitScoreCommand.
type SubmitScoreHandler struct {
	scoreRepo score.Repository
}

// NewSubmitScoreHandler creates the handler.
func NewSubmitScoreHandler(scoreRepo score.Repository) *SubmitScoreHandler {
	return &SubmitScoreHandler{scoreRepo: scoreRepo}
}

// Handle validates, computes the overall band, and persists the entry.
func (h *SubmitScoreHandler) Handle(ctx context.Context, cmd SubmitScoreCommand) (*SubmitScoreResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("score", "SubmitScore", shared.ErrValidation, err.Error(), err)
	}

	entry, err := score.NewEntry(
		uuid.NewString(),
		cmd.Username,
		cmd.TestDay,
		score.Band(cmd.Listening),
		score.Band(cmd.Reading),
		score.Band(cmd.Writing),
		score.Band(cmd.Speaking),
		timeutil.Now(),
	)
	if err != nil {
		return nil, shared.WrapError("score", "SubmitScore", shared.ErrValidation, "invalid score entry", err)
	}

	if err := h.scoreRepo.Insert(ctx, entry); err != nil {
		return nil, shared.WrapError("score", "SubmitScore", shared.ErrStorage, "failed to persist score entry", err)
	}

	return &SubmitScoreResult{
		EntryID: entry.ID,
		Overall: entry.Overall.Float(),
	}, nil
}
