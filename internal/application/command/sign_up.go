package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
	"github.com/ielts-momentum/momentum-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SIGN UP COMMAND
// Creates a new account with a bcrypt password hash. Used both by the
// public signup flow (role forced to student) and by the admin user
// creator (any role). A taken username is a conflict result, not an error.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultMinPasswordLen is the signup password floor when the handler is
// built with a non-positive value.
const DefaultMinPasswordLen = 4

// SignUpCommand carries a new account request.
type SignUpCommand struct {
	Username    string
	Password    string
	DisplayName string

	// Role defaults to student when empty. Only the admin flow sets it.
	Role user.Role
}

// Validate normalizes and checks required fields.
func (c *SignUpCommand) Validate(minPasswordLen int) error {
	c.Username = strings.TrimSpace(c.Username)
	c.DisplayName = strings.TrimSpace(c.DisplayName)

	if !user.ValidUsername(c.Username) {
		return errors.New("sign_up: username is required")
	}
	if c.DisplayName == "" {
		return errors.New("sign_up: display name is required")
	}
	if len(c.Password) < minPasswordLen {
		return fmt.Errorf("sign_up: password must be at least %d characters", minPasswordLen)
	}
	if c.Role == "" {
		c.Role = user.RoleStudent
	}
	if !c.Role.IsValid() {
		return errors.New("sign_up: unknown role")
	}
	return nil
}

// SignUpResult reports whether the account was created.
type SignUpResult struct {
	// Created is false for conflict outcomes (username taken).
	Created bool

	// Reason explains a Created=false outcome for the caller's UI.
	Reason string

	Username string
	Role     user.Role
}

// SignUpHandler handles SignUpCommand.
type SignUpHandler struct {
	userRepo       user.Repository
	bcryptCost     int
	minPasswordLen int
}

// NewSignUpHandler creates the handler. Non-positive cost falls back to
// bcrypt.DefaultCost, non-positive minPasswordLen to DefaultMinPasswordLen.
func NewSignUpHandler(userRepo user.Repository, bcryptCost, minPasswordLen int) *SignUpHandler {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if minPasswordLen <= 0 {
		minPasswordLen = DefaultMinPasswordLen
	}
	return &SignUpHandler{
		userRepo:       userRepo,
		bcryptCost:     bcryptCost,
		minPasswordLen: minPasswordLen,
	}
}

// Handle creates the account.
func (h *SignUpHandler) Handle(ctx context.Context, cmd SignUpCommand) (*SignUpResult, error) {
	if err := cmd.Validate(h.minPasswordLen); err != nil {
		return nil, shared.WrapError("user", "SignUp", shared.ErrValidation, err.Error(), err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), h.bcryptCost)
	if err != nil {
		return nil, shared.WrapError("user", "SignUp", shared.ErrInvalidInput, "failed to hash password", err)
	}

	u, err := user.New(cmd.Username, hash, cmd.DisplayName, cmd.Role, timeutil.Now())
	if err != nil {
		return nil, shared.WrapError("user", "SignUp", shared.ErrValidation, "invalid user", err)
	}

	if err := h.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrUserAlreadyExists) {
			return &SignUpResult{Created: false, Reason: "username already exists"}, nil
		}
		return nil, shared.WrapError("user", "SignUp", shared.ErrStorage, "failed to create user", err)
	}

	return &SignUpResult{Created: true, Username: u.Username, Role: u.Role}, nil
}
