// Package challenge contains the Challenge Engine domain model: the daily
// practice tasks a user works through, their fixed XP rewards, and the
// completion state machine. This is a pure domain layer with zero external
// dependencies.
package challenge

import (
	"errors"
	"time"
)

// Domain errors for the challenge package.
var (
	ErrInvalidUsername   = errors.New("challenge: invalid username")
	ErrInvalidDay        = errors.New("challenge: invalid day")
	ErrInvalidSeq        = errors.New("challenge: sequence id must be positive")
	ErrInvalidSkill      = errors.New("challenge: unknown skill type")
	ErrInvalidDifficulty = errors.New("challenge: unknown difficulty")
	ErrAlreadyCompleted  = errors.New("challenge: already completed")
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Skill identifies the IELTS skill a challenge practices.
type Skill string

const (
	SkillListening Skill = "Listening"
	SkillReading   Skill = "Reading"
	SkillWriting   Skill = "Writing"
	SkillSpeaking  Skill = "Speaking"
)

// IsValid checks that the skill is one of the four known skills.
func (s Skill) IsValid() bool {
	switch s {
	case SkillListening, SkillReading, SkillWriting, SkillSpeaking:
		return true
	}
	return false
}

// Difficulty identifies how hard a challenge is. Difficulty fully determines
// the XP reward at creation time.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// IsValid checks that the difficulty is one of the known levels.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// XP returns the fixed reward for this difficulty: Easy=10, Medium=20,
// Hard=30. Challenges copy this value at creation time and never read the
// table again, so a later change here does not touch historical records.
func (d Difficulty) XP() int {
	switch d {
	case DifficultyEasy:
		return 10
	case DifficultyMedium:
		return 20
	case DifficultyHard:
		return 30
	default:
		return 0
	}
}

// LevelForXP computes a user's level from total completed XP.
// Formula: floor(1 + xp/100) - Level 1 starts at 0 XP, Level 2 at 100 XP,
// with truncation (not rounding) at each threshold.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return 1 + xp/100
}

// State is the completion state of a challenge. A challenge is either
// pending or completed; the completion timestamp exists exactly when the
// challenge is completed, so the invariant is structural rather than an
// optional field the code has to keep consistent.
type State struct {
	completed   bool
	completedAt time.Time
}

// Pending is the initial state of every challenge.
func Pending() State {
	return State{}
}

// CompletedAt builds a completed state with the given timestamp.
func CompletedAt(at time.Time) State {
	return State{completed: true, completedAt: at}
}

// IsCompleted reports whether the challenge has been completed.
func (s State) IsCompleted() bool {
	return s.completed
}

// CompletionTime returns the completion timestamp and whether it exists.
func (s State) CompletionTime() (time.Time, bool) {
	if !s.completed {
		return time.Time{}, false
	}
	return s.completedAt, true
}

// ══════════════════════════════════════════════════════════════════════════════
// CHALLENGE ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Challenge is one daily practice task. It belongs to exactly one user and
// one study day; Seq is unique within that (user, day) pair.
type Challenge struct {
	Username   string
	Day        string // study-day key, "2006-01-02"
	Seq        int
	Skill      Skill
	Difficulty Difficulty
	Duration   string // display label, e.g. "5 min"
	XP         int    // frozen at creation from Difficulty.XP()

	State     State
	CreatedAt time.Time
}

// New creates a pending challenge with its XP frozen from the difficulty
// table.
func New(username, day string, seq int, skill Skill, difficulty Difficulty, duration string, createdAt time.Time) (*Challenge, error) {
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if day == "" {
		return nil, ErrInvalidDay
	}
	if seq <= 0 {
		return nil, ErrInvalidSeq
	}
	if !skill.IsValid() {
		return nil, ErrInvalidSkill
	}
	if !difficulty.IsValid() {
		return nil, ErrInvalidDifficulty
	}

	return &Challenge{
		Username:   username,
		Day:        day,
		Seq:        seq,
		Skill:      skill,
		Difficulty: difficulty,
		Duration:   duration,
		XP:         difficulty.XP(),
		State:      Pending(),
		CreatedAt:  createdAt,
	}, nil
}

// Complete transitions the challenge from pending to completed. The
// transition is monotonic: completing an already-completed challenge
// returns ErrAlreadyCompleted and changes nothing.
func (c *Challenge) Complete(at time.Time) error {
	if c.State.IsCompleted() {
		return ErrAlreadyCompleted
	}
	c.State = CompletedAt(at)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DAILY SEED SET
// ══════════════════════════════════════════════════════════════════════════════

// seedSpec describes one entry of the fixed daily seed set.
type seedSpec struct {
	skill      Skill
	difficulty Difficulty
	duration   string
}

// The fixed 3-challenge set generated on a user's first access each day,
// in ascending sequence order.
var dailySeed = [...]seedSpec{
	{SkillListening, DifficultyEasy, "5 min"},
	{SkillReading, DifficultyMedium, "8 min"},
	{SkillWriting, DifficultyHard, "12 min"},
}

// SeedSetSize is the number of challenges in the daily seed set.
const SeedSetSize = len(dailySeed)

// SeedSet builds the fixed daily challenge set for a user and day, with
// sequence ids 1..SeedSetSize.
func SeedSet(username, day string, createdAt time.Time) ([]*Challenge, error) {
	set := make([]*Challenge, 0, len(dailySeed))
	for i, spec := range dailySeed {
		c, err := New(username, day, i+1, spec.skill, spec.difficulty, spec.duration, createdAt)
		if err != nil {
			return nil, err
		}
		set = append(set, c)
	}
	return set, nil
}
