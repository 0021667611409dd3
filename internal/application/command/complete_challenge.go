package command

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ielts-momentum/momentum-hub/internal/domain/activity"
	"github.com/ielts-momentum/momentum-hub/internal/domain/challenge"
	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE CHALLENGE COMMAND
// Transitions one challenge from pending to completed and appends a
// challenge_completed activity record. The transition is a conditional
// atomic update in storage: two concurrent attempts on the same challenge
// produce exactly one completed state, one activity record, one XP credit.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteChallengeCommand identifies the challenge to complete.
type CompleteChallengeCommand struct {
	// Username is the authenticated user.
	Username string

	// Day is the study-day key; empty means today (UTC).
	Day string

	// Seq is the challenge's sequence id within the user's day.
	Seq int
}

// Validate checks the command and fills the day default.
func (c *CompleteChallengeCommand) Validate() error {
	if c.Username == "" {
		return errors.New("complete_challenge: username is required")
	}
	if c.Seq <= 0 {
		return errors.New("complete_challenge: challenge sequence id is required")
	}
	if c.Day == "" {
		c.Day = timeutil.Today()
	}
	if !timeutil.IsValidDay(c.Day) {
		return errors.New("complete_challenge: invalid day")
	}
	return nil
}

// CompleteChallengeResult reports what actually happened.
type CompleteChallengeResult struct {
	// Completed is true only when this call performed the pending->completed
	// transition. False means the challenge did not exist for that day or
	// was already completed - a no-op, not an error.
	Completed bool

	// XPAwarded is the challenge's frozen XP when Completed is true.
	XPAwarded int

	// ActivityRecorded is true when the challenge_completed record was
	// appended. Completed=true with ActivityRecorded=false is the accepted
	// inconsistency window: XP and leveling are intact, only the streak
	// metric can undercount.
	ActivityRecorded bool
}

// CompleteChallengeHandler handles CompleteChallengeCommand.
type CompleteChallengeHandler struct {
	challengeRepo challenge.Repository
	activityRepo  activity.Repository
	invalidator   LeaderboardInvalidator
}

// LeaderboardInvalidator drops cached leaderboard views after an XP change.
// Implementations are best-effort; a nil invalidator disables invalidation.
type LeaderboardInvalidator interface {
	InvalidateLeaderboard(ctx context.Context) error
}

// NewCompleteChallengeHandler creates the handler. invalidator may be nil.
func NewCompleteChallengeHandler(challengeRepo challenge.Repository, activityRepo activity.Repository, invalidator LeaderboardInvalidator) *CompleteChallengeHandler {
	return &CompleteChallengeHandler{
		challengeRepo: challengeRepo,
		activityRepo:  activityRepo,
		invalidator:   invalidator,
	}
}

// Handle performs the completion transition.
func (h *CompleteChallengeHandler) Handle(ctx context.Context, cmd CompleteChallengeCommand) (*CompleteChallengeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("challenge", "CompleteChallenge", shared.ErrValidation, err.Error(), err)
	}

	now := timeutil.Now()

	transitioned, err := h.challengeRepo.MarkCompleted(ctx, cmd.Username, cmd.Day, cmd.Seq, now)
	if err != nil {
		return nil, shared.WrapError("challenge", "CompleteChallenge", shared.ErrStorage, "failed to mark challenge completed", err)
	}
	if !transitioned {
		return &CompleteChallengeResult{Completed: false}, nil
	}

	result := &CompleteChallengeResult{Completed: true}

	if xp := h.lookupXP(ctx, cmd); xp > 0 {
		result.XPAwarded = xp
	}

	// Best-effort second write. A failure here leaves a completed challenge
	// without its activity record; that only degrades the streak metric and
	// is not rolled back.
	record, err := activity.NewChallengeRecord(uuid.NewString(), cmd.Username, cmd.Day, cmd.Seq, now)
	if err == nil {
		if appendErr := h.activityRepo.Append(ctx, record); appendErr == nil {
			result.ActivityRecorded = true
		}
	}

	if h.invalidator != nil {
		_ = h.invalidator.InvalidateLeaderboard(ctx)
	}

	return result, nil
}

// lookupXP reads back the completed challenge's frozen XP for the result.
func (h *CompleteChallengeHandler) lookupXP(ctx context.Context, cmd CompleteChallengeCommand) int {
	set, err := h.challengeRepo.ListByUserDay(ctx, cmd.Username, cmd.Day)
	if err != nil {
		return 0
	}
	for _, c := range set {
		if c.Seq == cmd.Seq {
			return c.XP
		}
	}
	return 0
}
