// Package score contains the Score Ledger domain model: mock-test band
// scores and the official overall-band computation. This is a pure domain
// layer with zero external dependencies.
package score

import (
	"errors"
	"math"
	"time"
)

// Domain errors for the score package.
var (
	ErrInvalidUsername = errors.New("score: invalid username")
	ErrInvalidDay      = errors.New("score: invalid test day")
	ErrInvalidBand     = errors.New("score: band must be within 0-9 in 0.5 steps")
	ErrInvalidEntryID  = errors.New("score: invalid entry ID")
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Band represents an IELTS band score: a real value in [0, 9] in 0.5 steps.
// Both per-skill sub-scores and the overall band use this type.
type Band float64

// IsValid checks that the band is within range and on a half-point step.
func (b Band) IsValid() bool {
	v := float64(b)
	if v < 0 || v > 9 {
		return false
	}
	doubled := v * 2
	return doubled == math.Trunc(doubled)
}

// Float returns the band as a float64.
func (b Band) Float() float64 {
	return float64(b)
}

// Skill identifies one of the four IELTS skills.
type Skill string

const (
	SkillListening Skill = "Listening"
	SkillReading   Skill = "Reading"
	SkillWriting   Skill = "Writing"
	SkillSpeaking  Skill = "Speaking"
)

// ══════════════════════════════════════════════════════════════════════════════
// OVERALL BAND COMPUTATION
// ══════════════════════════════════════════════════════════════════════════════

// Overall computes the official overall band from the four sub-scores.
//
// Rule: take the plain average, then round to the nearest half band with
// .25 rounding up to .5 and .75 rounding up to the next whole band:
//
//	frac < 0.25          -> whole
//	0.25 <= frac < 0.75  -> whole + 0.5
//	frac >= 0.75         -> whole + 1.0
//
// With 0.5-step inputs over four values the average is always a multiple of
// 0.125, which is exact in binary floating point, so the comparisons above
// are bit-exact for every reachable input.
func Overall(listening, reading, writing, speaking Band) Band {
	avg := (listening.Float() + reading.Float() + writing.Float() + speaking.Float()) / 4
	whole := math.Floor(avg)
	frac := avg - whole

	switch {
	case frac < 0.25:
		return Band(whole)
	case frac < 0.75:
		return Band(whole + 0.5)
	default:
		return Band(whole + 1.0)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORE ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry is one mock-test submission. The overall band is computed once at
// submission time and stored immutably alongside the sub-scores; it is never
// recomputed from them afterwards.
type Entry struct {
	ID        string
	Username  string
	TestDay   string // study-day key, "2006-01-02"
	Listening Band
	Reading   Band
	Writing   Band
	Speaking  Band
	Overall   Band

	SubmittedAt time.Time
}

// NewEntry validates the sub-scores and builds an entry with its overall
// band computed and frozen.
func NewEntry(id, username, testDay string, listening, reading, writing, speaking Band, submittedAt time.Time) (*Entry, error) {
	if id == "" {
		return nil, ErrInvalidEntryID
	}
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if testDay == "" {
		return nil, ErrInvalidDay
	}
	for _, b := range []Band{listening, reading, writing, speaking} {
		if !b.IsValid() {
			return nil, ErrInvalidBand
		}
	}

	return &Entry{
		ID:          id,
		Username:    username,
		TestDay:     testDay,
		Listening:   listening,
		Reading:     reading,
		Writing:     writing,
		Speaking:    speaking,
		Overall:     Overall(listening, reading, writing, speaking),
		SubmittedAt: submittedAt,
	}, nil
}

// Sub returns the sub-score for a skill.
func (e *Entry) Sub(skill Skill) Band {
	switch skill {
	case SkillListening:
		return e.Listening
	case SkillReading:
		return e.Reading
	case SkillWriting:
		return e.Writing
	case SkillSpeaking:
		return e.Speaking
	default:
		return 0
	}
}
