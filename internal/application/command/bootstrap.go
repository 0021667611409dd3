package command

import (
	"context"
	"errors"

	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEED USERS BOOTSTRAP
// Creates the demo accounts on startup when they are missing. Safe to run
// on every boot: existing accounts are left untouched.
// ══════════════════════════════════════════════════════════════════════════════

// SeedUser describes one bootstrap account.
type SeedUser struct {
	Username    string
	Password    string
	DisplayName string
	Role        user.Role
}

// DefaultSeedUsers are the accounts the original deployment ships with.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{Username: "admin", Password: "leap123", DisplayName: "Super Admin", Role: user.RoleAdmin},
		{Username: "demo", Password: "demo123", DisplayName: "Alex Student", Role: user.RoleStudent},
	}
}

// EnsureSeedUsers creates any missing seed accounts through the signup
// handler. Existing usernames are skipped; the first storage error aborts.
func EnsureSeedUsers(ctx context.Context, signUp *SignUpHandler, userRepo user.Repository, seeds []SeedUser) (created int, err error) {
	for _, s := range seeds {
		_, getErr := userRepo.GetByUsername(ctx, s.Username)
		if getErr == nil {
			continue
		}
		if !errors.Is(getErr, user.ErrUserNotFound) {
			return created, getErr
		}

		res, signErr := signUp.Handle(ctx, SignUpCommand{
			Username:    s.Username,
			Password:    s.Password,
			DisplayName: s.DisplayName,
			Role:        s.Role,
		})
		if signErr != nil {
			return created, signErr
		}
		if res.Created {
			created++
		}
	}
	return created, nil
}
