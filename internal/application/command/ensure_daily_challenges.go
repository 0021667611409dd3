// Package command contains write operations (CQRS - Commands).
// Each command is a self-contained use case: a command struct with
// validation, a result struct, and a handler orchestrating domain objects
// and repositories.
package command

import (
	"context"
	"errors"

	"github.com/ielts-momentum/momentum-hub/internal/domain/challenge"
	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENSURE DAILY CHALLENGES COMMAND
// Lazily seeds the fixed 3-challenge set on a user's first access of the day
// and returns the day's challenges. Idempotent: a day that already has
// challenges is returned unchanged, and concurrent first-access races
// resolve to a single visible set via the repository's idempotent upsert.
// ══════════════════════════════════════════════════════════════════════════════

// EnsureDailyChallengesCommand identifies the user and day to materialize.
type EnsureDailyChallengesCommand struct {
	// Username is the authenticated user.
	Username string

	// Day is the study-day key; empty means today (UTC).
	Day string
}

// Validate checks the command and fills the day default.
func (c *EnsureDailyChallengesCommand) Validate() error {
	if c.Username == "" {
		return errors.New("ensure_daily_challenges: username is required")
	}
	if c.Day == "" {
		c.Day = timeutil.Today()
	}
	if !timeutil.IsValidDay(c.Day) {
		return errors.New("ensure_daily_challenges: invalid day")
	}
	return nil
}

// EnsureDailyChallengesResult carries the day's challenge set.
type EnsureDailyChallengesResult struct {
	// Challenges are the day's challenges in ascending sequence order.
	Challenges []*challenge.Challenge

	// Seeded is true when this call created the set (first access).
	Seeded bool
}

// EnsureDailyChallengesHandler handles EnsureDailyChallengesCommand.
type EnsureDailyChallengesHandler struct {
	challengeRepo challenge.Repository
}

// NewEnsureDailyChallengesHandler creates the handler.
func NewEnsureDailyChallengesHandler(challengeRepo challenge.Repository) *EnsureDailyChallengesHandler {
	return &EnsureDailyChallengesHandler{challengeRepo: challengeRepo}
}

// Handle materializes and returns the day's challenges.
func (h *EnsureDailyChallengesHandler) Handle(ctx context.Context, cmd EnsureDailyChallengesCommand) (*EnsureDailyChallengesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("challenge", "EnsureDailyChallenges", shared.ErrValidation, err.Error(), err)
	}

	existing, err := h.challengeRepo.ListByUserDay(ctx, cmd.Username, cmd.Day)
	if err != nil {
		return nil, shared.WrapError("challenge", "EnsureDailyChallenges", shared.ErrStorage, "failed to list challenges", err)
	}
	if len(existing) > 0 {
		return &EnsureDailyChallengesResult{Challenges: existing}, nil
	}

	seed, err := challenge.SeedSet(cmd.Username, cmd.Day, timeutil.Now())
	if err != nil {
		return nil, shared.WrapError("challenge", "EnsureDailyChallenges", shared.ErrValidation, "failed to build seed set", err)
	}

	// A concurrent first access may win some or all of these inserts; the
	// upsert skips rows that already exist, and the read-back below returns
	// whatever set won. No duplicate sets are ever visible.
	if err := h.challengeRepo.SeedIfAbsent(ctx, seed); err != nil {
		return nil, shared.WrapError("challenge", "EnsureDailyChallenges", shared.ErrStorage, "failed to seed challenges", err)
	}

	current, err := h.challengeRepo.ListByUserDay(ctx, cmd.Username, cmd.Day)
	if err != nil {
		return nil, shared.WrapError("challenge", "EnsureDailyChallenges", shared.ErrStorage, "failed to read back challenges", err)
	}

	return &EnsureDailyChallengesResult{Challenges: current, Seeded: true}, nil
}
