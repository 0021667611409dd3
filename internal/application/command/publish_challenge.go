package command

import (
	"context"
	"errors"

	"github.com/ielts-momentum/momentum-hub/internal/domain/challenge"
	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PUBLISH CHALLENGE COMMAND
// Admin content-editor path. Deliberately a dry run: it validates the
// input and derives the fixed XP from the difficulty, but persists
// nothing. The result carries Persisted=false so callers cannot mistake
// it for a real write. Daily challenge sets continue to come exclusively
// from the fixed seed.
// ══════════════════════════════════════════════════════════════════════════════

// PublishChallengeCommand carries a proposed challenge.
type PublishChallengeCommand struct {
	// ActingAdmin is the authenticated admin.
	ActingAdmin string

	Skill      challenge.Skill
	Difficulty challenge.Difficulty
	Duration   string
}

// Validate checks the command.
func (c *PublishChallengeCommand) Validate() error {
	if c.ActingAdmin == "" {
		return errors.New("publish_challenge: acting admin is required")
	}
	if !c.Skill.IsValid() {
		return errors.New("publish_challenge: unknown skill")
	}
	if !c.Difficulty.IsValid() {
		return errors.New("publish_challenge: unknown difficulty")
	}
	return nil
}

// PublishChallengeResult is the composed (but not persisted) challenge.
type PublishChallengeResult struct {
	Skill      challenge.Skill
	Difficulty challenge.Difficulty
	Duration   string

	// XP is derived from the difficulty table; the editor cannot override it.
	XP int

	// Persisted is always false: the publish path is a stub.
	Persisted bool
}

// PublishChallengeHandler handles PublishChallengeCommand.
type PublishChallengeHandler struct{}

// NewPublishChallengeHandler creates the handler.
func NewPublishChallengeHandler() *PublishChallengeHandler {
	return &PublishChallengeHandler{}
}

// Handle validates and echoes the would-be challenge.
func (h *PublishChallengeHandler) Handle(_ context.Context, cmd PublishChallengeCommand) (*PublishChallengeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("challenge", "PublishChallenge", shared.ErrValidation, err.Error(), err)
	}

	return &PublishChallengeResult{
		Skill:      cmd.Skill,
		Difficulty: cmd.Difficulty,
		Duration:   cmd.Duration,
		XP:         cmd.Difficulty.XP(),
		Persisted:  false,
	}, nil
}
