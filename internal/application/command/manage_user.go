package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// MANAGE USER COMMAND
// Admin actions on existing accounts: delete, promote to admin, demote to
// student. An admin modifying their own account is a conflict result, not
// an error. Deletion does not cascade: challenge, score, and activity
// records for the username remain as orphans by design.
// ══════════════════════════════════════════════════════════════════════════════

// UserAction is the admin operation to apply.
type UserAction string

const (
	ActionDelete  UserAction = "delete"
	ActionPromote UserAction = "promote"
	ActionDemote  UserAction = "demote"
)

// IsValid checks that the action is known.
func (a UserAction) IsValid() bool {
	switch a {
	case ActionDelete, ActionPromote, ActionDemote:
		return true
	}
	return false
}

// ManageUserCommand carries an admin action.
type ManageUserCommand struct {
	// ActingAdmin is the authenticated admin performing the action.
	ActingAdmin string

	// Target is the username the action applies to.
	Target string

	// Action is what to do with the target.
	Action UserAction
}

// Validate checks the command.
func (c *ManageUserCommand) Validate() error {
	if c.ActingAdmin == "" {
		return errors.New("manage_user: acting admin is required")
	}
	if c.Target == "" {
		return errors.New("manage_user: target username is required")
	}
	if !c.Action.IsValid() {
		return fmt.Errorf("manage_user: unknown action %q", c.Action)
	}
	return nil
}

// ManageUserResult reports the outcome.
type ManageUserResult struct {
	// Applied is false for conflict outcomes (self-modification, unknown
	// target); Reason explains why.
	Applied bool
	Reason  string

	Target string
	Action UserAction
}

// ManageUserHandler handles ManageUserCommand.
type ManageUserHandler struct {
	userRepo user.Repository
}

// NewManageUserHandler creates the handler.
func NewManageUserHandler(userRepo user.Repository) *ManageUserHandler {
	return &ManageUserHandler{userRepo: userRepo}
}

// Handle applies the admin action.
func (h *ManageUserHandler) Handle(ctx context.Context, cmd ManageUserCommand) (*ManageUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("user", "ManageUser", shared.ErrValidation, err.Error(), err)
	}

	if cmd.ActingAdmin == cmd.Target {
		return &ManageUserResult{Applied: false, Reason: "cannot modify self", Target: cmd.Target, Action: cmd.Action}, nil
	}

	actor, err := h.userRepo.GetByUsername(ctx, cmd.ActingAdmin)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, shared.WrapError("user", "ManageUser", shared.ErrForbidden, "acting admin not found", err)
		}
		return nil, shared.WrapError("user", "ManageUser", shared.ErrStorage, "failed to load acting admin", err)
	}
	if !actor.IsAdmin() {
		return nil, shared.NewDomainError("user", "ManageUser", shared.ErrForbidden, "admin role required")
	}

	switch cmd.Action {
	case ActionDelete:
		err = h.userRepo.Delete(ctx, cmd.Target)
	case ActionPromote:
		err = h.changeRole(ctx, cmd.Target, user.RoleAdmin)
	case ActionDemote:
		err = h.changeRole(ctx, cmd.Target, user.RoleStudent)
	}

	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return &ManageUserResult{Applied: false, Reason: "user not found", Target: cmd.Target, Action: cmd.Action}, nil
		}
		return nil, shared.WrapError("user", "ManageUser", shared.ErrStorage, "failed to apply action", err)
	}

	return &ManageUserResult{Applied: true, Target: cmd.Target, Action: cmd.Action}, nil
}

func (h *ManageUserHandler) changeRole(ctx context.Context, username string, role user.Role) error {
	u, err := h.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := u.ChangeRole(role); err != nil {
		return err
	}
	return h.userRepo.Update(ctx, u)
}
