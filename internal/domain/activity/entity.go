// Package activity contains the Activity Log domain model: an append-only
// record of user actions consumed only in aggregate (distinct active days
// per user, distinct active users per day). It is an analytics source, never
// a source of truth for entity state. Pure domain layer, zero external
// dependencies.
package activity

import (
	"errors"
	"time"
)

// Domain errors for the activity package.
var (
	ErrInvalidRecordID = errors.New("activity: invalid record ID")
	ErrInvalidUsername = errors.New("activity: invalid username")
	ErrInvalidDay      = errors.New("activity: invalid day")
	ErrInvalidKind     = errors.New("activity: unknown event kind")
)

// Kind identifies the type of recorded event.
type Kind string

const (
	// KindChallengeCompleted marks a daily challenge completion.
	KindChallengeCompleted Kind = "challenge_completed"

	// KindLogin marks a successful sign-in.
	KindLogin Kind = "login"
)

// IsValid checks that the kind is known.
func (k Kind) IsValid() bool {
	return k == KindChallengeCompleted || k == KindLogin
}

// Record is one append-only activity event. ChallengeSeq is set only for
// challenge-related kinds.
type Record struct {
	ID           string
	Username     string
	Day          string // study-day key, "2006-01-02"
	Kind         Kind
	ChallengeSeq *int
	OccurredAt   time.Time
}

// NewRecord creates an activity record without a challenge reference.
func NewRecord(id, username, day string, kind Kind, occurredAt time.Time) (*Record, error) {
	if id == "" {
		return nil, ErrInvalidRecordID
	}
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if day == "" {
		return nil, ErrInvalidDay
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}

	return &Record{
		ID:         id,
		Username:   username,
		Day:        day,
		Kind:       kind,
		OccurredAt: occurredAt,
	}, nil
}

// NewChallengeRecord creates an activity record referencing a challenge.
func NewChallengeRecord(id, username, day string, seq int, occurredAt time.Time) (*Record, error) {
	r, err := NewRecord(id, username, day, KindChallengeCompleted, occurredAt)
	if err != nil {
		return nil, err
	}
	r.ChallengeSeq = &seq
	return r, nil
}

// DayCount is one row of the per-day platform activity aggregation.
type DayCount struct {
	Day   string
	Count int
}
