package command

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ielts-momentum/momentum-hub/internal/domain/activity"
	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
	"github.com/ielts-momentum/momentum-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATE COMMAND
// Verifies credentials and appends a login activity record on success.
// The activity append is best-effort: a failed append never fails a login.
// Invalid credentials are a failed result with a reason, not an error.
// ══════════════════════════════════════════════════════════════════════════════

// AuthenticateCommand carries a login attempt.
type AuthenticateCommand struct {
	Username string
	Password string
}

// Validate normalizes and checks required fields.
func (c *AuthenticateCommand) Validate() error {
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		return errors.New("authenticate: username is required")
	}
	if c.Password == "" {
		return errors.New("authenticate: password is required")
	}
	return nil
}

// AuthenticateResult reports the outcome of a login attempt.
type AuthenticateResult struct {
	// Authenticated is false for unknown users and wrong passwords; both
	// share the same reason so the response does not leak which usernames
	// exist.
	Authenticated bool
	Reason        string

	Username    string
	DisplayName string
	Role        user.Role
}

// AuthenticateHandler handles AuthenticateCommand.
type AuthenticateHandler struct {
	userRepo     user.Repository
	activityRepo activity.Repository
}

// NewAuthenticateHandler creates the handler.
func NewAuthenticateHandler(userRepo user.Repository, activityRepo activity.Repository) *AuthenticateHandler {
	return &AuthenticateHandler{userRepo: userRepo, activityRepo: activityRepo}
}

// Handle verifies the credentials.
func (h *AuthenticateHandler) Handle(ctx context.Context, cmd AuthenticateCommand) (*AuthenticateResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("user", "Authenticate", shared.ErrValidation, err.Error(), err)
	}

	failed := &AuthenticateResult{Authenticated: false, Reason: "invalid credentials"}

	u, err := h.userRepo.GetByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return failed, nil
		}
		return nil, shared.WrapError("user", "Authenticate", shared.ErrStorage, "failed to load user", err)
	}

	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(cmd.Password)) != nil {
		return failed, nil
	}

	// Best-effort login activity for the streak and admin dashboards.
	now := timeutil.Now()
	if record, rErr := activity.NewRecord(uuid.NewString(), u.Username, timeutil.DayOf(now), activity.KindLogin, now); rErr == nil {
		_ = h.activityRepo.Append(ctx, record)
	}

	return &AuthenticateResult{
		Authenticated: true,
		Username:      u.Username,
		DisplayName:   u.DisplayName,
		Role:          u.Role,
	}, nil
}
