package user

import "context"

// Repository defines the persistence contract for user accounts.
// Implementations map ErrUserNotFound / ErrUserAlreadyExists onto the
// storage layer's own not-found and unique-violation conditions.
type Repository interface {
	// Create inserts a new user. Returns ErrUserAlreadyExists when the
	// username is taken.
	Create(ctx context.Context, u *User) error

	// GetByUsername returns a user, or ErrUserNotFound.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update persists profile, settings, and role changes for an existing
	// user. Returns ErrUserNotFound when the user does not exist.
	Update(ctx context.Context, u *User) error

	// Delete hard-deletes a user. No cascade: challenge, score, and
	// activity records for the username stay behind as orphans by design.
	Delete(ctx context.Context, username string) error

	// List returns all users ordered by username ascending.
	List(ctx context.Context) ([]*User, error)

	// GetDisplayNames resolves usernames to display names. Unknown
	// usernames are simply absent from the result map, so aggregate views
	// stay resilient to orphaned records.
	GetDisplayNames(ctx context.Context, usernames []string) (map[string]string, error)

	// CountByRole returns the number of users holding the given role.
	CountByRole(ctx context.Context, role Role) (int, error)
}
