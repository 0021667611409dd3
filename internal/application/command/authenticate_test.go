package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ielts-momentum/momentum-hub/internal/domain/activity"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
	"github.com/ielts-momentum/momentum-hub/pkg/timeutil"
)

func signUpTestUser(t *testing.T, repo *fakeUserRepo, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := user.New(username, hash, "Test User", user.RoleStudent, timeutil.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
}

func TestAuthenticate_Success(t *testing.T) {
	users := newFakeUserRepo()
	activities := newFakeActivityRepo()
	handler := NewAuthenticateHandler(users, activities)

	signUpTestUser(t, users, "demo", "demo123")

	res, err := handler.Handle(context.Background(), AuthenticateCommand{Username: "demo", Password: "demo123"})
	require.NoError(t, err)

	assert.True(t, res.Authenticated)
	assert.Equal(t, "demo", res.Username)
	assert.Equal(t, "Test User", res.DisplayName)
	assert.Equal(t, user.RoleStudent, res.Role)

	logins := activities.byKind(activity.KindLogin)
	require.Len(t, logins, 1)
	assert.Equal(t, "demo", logins[0].Username)
	assert.Equal(t, timeutil.Today(), logins[0].Day)
	assert.Nil(t, logins[0].ChallengeSeq)
}

func TestAuthenticate_WrongPasswordAndUnknownUserShareReason(t *testing.T) {
	users := newFakeUserRepo()
	activities := newFakeActivityRepo()
	handler := NewAuthenticateHandler(users, activities)
	ctx := context.Background()

	signUpTestUser(t, users, "demo", "demo123")

	wrongPass, err := handler.Handle(ctx, AuthenticateCommand{Username: "demo", Password: "nope"})
	require.NoError(t, err)
	unknown, err := handler.Handle(ctx, AuthenticateCommand{Username: "ghost", Password: "nope"})
	require.NoError(t, err)

	assert.False(t, wrongPass.Authenticated)
	assert.False(t, unknown.Authenticated)
	assert.Equal(t, wrongPass.Reason, unknown.Reason)
	assert.Empty(t, activities.byKind(activity.KindLogin))
}

func TestAuthenticate_ActivityFailureDoesNotFailLogin(t *testing.T) {
	users := newFakeUserRepo()
	activities := newFakeActivityRepo()
	activities.appendErr = errors.New("activity store down")
	handler := NewAuthenticateHandler(users, activities)

	signUpTestUser(t, users, "demo", "demo123")

	res, err := handler.Handle(context.Background(), AuthenticateCommand{Username: "demo", Password: "demo123"})
	require.NoError(t, err)
	assert.True(t, res.Authenticated)
}

func TestAuthenticate_Validation(t *testing.T) {
	handler := NewAuthenticateHandler(newFakeUserRepo(), newFakeActivityRepo())
	ctx := context.Background()

	_, err := handler.Handle(ctx, AuthenticateCommand{Password: "x"})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, AuthenticateCommand{Username: "demo"})
	assert.Error(t, err)
}
