package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	u, err := New("demo", []byte("$2a$10$hash"), "Alex Student", RoleStudent, time.Now().UTC())
	require.NoError(t, err)
	return u
}

func TestNew_Defaults(t *testing.T) {
	u := newTestUser(t)

	assert.Equal(t, DefaultTargetScore, u.TargetScore)
	assert.Equal(t, DefaultSettings(), u.Settings)
	assert.False(t, u.IsAdmin())
}

func TestNew_Validation(t *testing.T) {
	now := time.Now().UTC()

	_, err := New("has space", []byte("h"), "Name", RoleStudent, now)
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = New("", []byte("h"), "Name", RoleStudent, now)
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = New("demo", nil, "Name", RoleStudent, now)
	assert.ErrorIs(t, err, ErrEmptyPasswordHash)

	_, err = New("demo", []byte("h"), "   ", RoleStudent, now)
	assert.ErrorIs(t, err, ErrInvalidDisplayName)

	_, err = New("demo", []byte("h"), "Name", Role("superuser"), now)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestTargetScore_IsValid(t *testing.T) {
	for _, v := range []TargetScore{5.0, 6.5, 7.5, 9.0} {
		assert.True(t, v.IsValid(), "target %v", v)
	}
	for _, v := range []TargetScore{4.5, 9.5, 7.25, 0} {
		assert.False(t, v.IsValid(), "target %v", v)
	}
}

func TestUpdateProfile_PartialPatch(t *testing.T) {
	u := newTestUser(t)

	// Patch only the target; the name must survive.
	require.NoError(t, u.UpdateProfile("", 8.0, nil))
	assert.Equal(t, "Alex Student", u.DisplayName)
	assert.Equal(t, TargetScore(8.0), u.TargetScore)

	// Patch only the name.
	require.NoError(t, u.UpdateProfile("Alex S.", 0, nil))
	assert.Equal(t, "Alex S.", u.DisplayName)
	assert.Equal(t, TargetScore(8.0), u.TargetScore)

	// Patch settings.
	s := Settings{LearningTime: "Morning", Difficulty: "Hard"}
	require.NoError(t, u.UpdateProfile("", 0, &s))
	assert.Equal(t, s, u.Settings)
}

func TestUpdateProfile_RejectsBadTarget(t *testing.T) {
	u := newTestUser(t)
	err := u.UpdateProfile("", 4.0, nil)
	assert.ErrorIs(t, err, ErrInvalidTarget)
	assert.Equal(t, DefaultTargetScore, u.TargetScore)
}

func TestChangeRole(t *testing.T) {
	u := newTestUser(t)

	require.NoError(t, u.ChangeRole(RoleAdmin))
	assert.True(t, u.IsAdmin())

	assert.ErrorIs(t, u.ChangeRole(Role("root")), ErrInvalidRole)
	assert.True(t, u.IsAdmin())
}
