// Package user contains the Identity Store domain model: accounts, roles,
// target band scores, and per-user study preferences. This is a pure domain
// layer with zero external dependencies.
package user

import (
	"errors"
	"strings"
	"time"
)

// Domain errors for the user package.
var (
	ErrInvalidUsername    = errors.New("user: invalid username")
	ErrInvalidDisplayName = errors.New("user: display name is required")
	ErrInvalidRole        = errors.New("user: unknown role")
	ErrInvalidTarget      = errors.New("user: target score must be 5.0-9.0 in 0.5 steps")
	ErrEmptyPasswordHash  = errors.New("user: password hash is required")
	ErrUserNotFound       = errors.New("user: not found")
	ErrUserAlreadyExists  = errors.New("user: username already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Role determines what a user may do on the platform.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// IsValid checks that the role is known.
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// TargetScore is the band score a student is aiming for.
type TargetScore float64

// DefaultTargetScore is assigned at signup until the student changes it.
const DefaultTargetScore TargetScore = 7.5

// IsValid checks that the target is within 5.0-9.0 on a half-point step.
func (t TargetScore) IsValid() bool {
	v := float64(t)
	if v < 5.0 || v > 9.0 {
		return false
	}
	doubled := v * 2
	return doubled == float64(int(doubled))
}

// Settings holds per-user study preferences.
type Settings struct {
	// LearningTime is the preferred time of day, e.g. "Morning", "Evening".
	LearningTime string

	// Difficulty is the preferred challenge difficulty label.
	Difficulty string
}

// DefaultSettings returns the preferences assigned at signup.
func DefaultSettings() Settings {
	return Settings{LearningTime: "Evening", Difficulty: "Medium"}
}

// ══════════════════════════════════════════════════════════════════════════════
// USER ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// User is a platform account. Username is the immutable identifier; every
// other entity references users by this string, without referential
// integrity enforcement (orphaned records after deletion are tolerated).
type User struct {
	Username     string
	PasswordHash []byte
	DisplayName  string
	Role         Role
	TargetScore  TargetScore
	Settings     Settings
	CreatedAt    time.Time
}

// ValidUsername checks that a username is non-empty and has no whitespace.
func ValidUsername(username string) bool {
	return username != "" && !strings.ContainsAny(username, " \t\n\r")
}

// New creates a user with the default target score and settings.
func New(username string, passwordHash []byte, displayName string, role Role, createdAt time.Time) (*User, error) {
	if !ValidUsername(username) {
		return nil, ErrInvalidUsername
	}
	if len(passwordHash) == 0 {
		return nil, ErrEmptyPasswordHash
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, ErrInvalidDisplayName
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		Role:         role,
		TargetScore:  DefaultTargetScore,
		Settings:     DefaultSettings(),
		CreatedAt:    createdAt,
	}, nil
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateProfile applies a profile patch. Zero values leave the current
// field untouched so callers can patch a single field.
func (u *User) UpdateProfile(displayName string, target TargetScore, settings *Settings) error {
	if displayName != "" {
		u.DisplayName = displayName
	}
	if target != 0 {
		if !target.IsValid() {
			return ErrInvalidTarget
		}
		u.TargetScore = target
	}
	if settings != nil {
		u.Settings = *settings
	}
	return nil
}

// ChangeRole switches the user's role.
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	u.Role = role
	return nil
}
