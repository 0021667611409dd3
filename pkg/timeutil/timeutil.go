// Package timeutil provides study-day utilities for Momentum Hub.
// A "study day" is a UTC calendar date: every challenge, score entry, and
// activity record is keyed by the day string "2006-01-02" in UTC, so two
// server instances in different timezones always agree on "today".
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// DayLayout is the canonical format for study-day keys.
const DayLayout = "2006-01-02"

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// Today returns the current study day as a "2006-01-02" string.
func Today() string {
	return Now().Format(DayLayout)
}

// DayOf returns the study-day key for an arbitrary time.
func DayOf(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// ParseDay parses a study-day key back into a time at midnight UTC.
func ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, day, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid day %q: %w", day, err)
	}
	return t, nil
}

// IsValidDay reports whether day is a well-formed study-day key.
func IsValidDay(day string) bool {
	_, err := ParseDay(day)
	return err == nil
}

// StartOfDay returns midnight UTC for the day containing t.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last nanosecond of the day containing t, in UTC.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// DaysAgo returns the study-day key for n days before today.
func DaysAgo(n int) string {
	return DayOf(Now().AddDate(0, 0, -n))
}

// SameDay reports whether two times fall on the same study day.
func SameDay(a, b time.Time) bool {
	return DayOf(a) == DayOf(b)
}
