package command

import (
	"context"
	"errors"

	"github.com/ielts-momentum/momentum-hub/internal/domain/shared"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE COMMAND
// Applies a partial profile patch: display name, target band score, and
// study preferences. Zero-valued fields leave the stored value untouched.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand carries the patch.
type UpdateProfileCommand struct {
	// Username is the authenticated user being updated.
	Username string

	// DisplayName replaces the stored name when non-empty.
	DisplayName string

	// TargetScore replaces the stored target when non-zero.
	TargetScore float64

	// Settings replaces the stored preferences when non-nil.
	Settings *user.Settings
}

// Validate checks the command.
func (c *UpdateProfileCommand) Validate() error {
	if c.Username == "" {
		return errors.New("update_profile: username is required")
	}
	if c.DisplayName == "" && c.TargetScore == 0 && c.Settings == nil {
		return errors.New("update_profile: nothing to update")
	}
	return nil
}

// UpdateProfileResult reports the updated profile.
type UpdateProfileResult struct {
	Username    string
	DisplayName string
	TargetScore float64
	Settings    user.Settings
}

// UpdateProfileHandler handles UpdateProfileCommand.
type UpdateProfileHandler struct {
	userRepo user.Repository
}

// NewUpdateProfileHandler creates the handler.
func NewUpdateProfileHandler(userRepo user.Repository) *UpdateProfileHandler {
	return &UpdateProfileHandler{userRepo: userRepo}
}

// Handle loads, patches, and persists the profile.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*UpdateProfileResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("user", "UpdateProfile", shared.ErrValidation, err.Error(), err)
	}

	u, err := h.userRepo.GetByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, shared.WrapError("user", "UpdateProfile", shared.ErrNotFound, "user not found", err)
		}
		return nil, shared.WrapError("user", "UpdateProfile", shared.ErrStorage, "failed to load user", err)
	}

	if err := u.UpdateProfile(cmd.DisplayName, user.TargetScore(cmd.TargetScore), cmd.Settings); err != nil {
		return nil, shared.WrapError("user", "UpdateProfile", shared.ErrValidation, "invalid profile patch", err)
	}

	if err := h.userRepo.Update(ctx, u); err != nil {
		return nil, shared.WrapError("user", "UpdateProfile", shared.ErrStorage, "failed to persist profile", err)
	}

	return &UpdateProfileResult{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		TargetScore: float64(u.TargetScore),
		Settings:    u.Settings,
	}, nil
}
