package score

import "context"

// Repository defines the persistence contract for score entries.
// The implementation lives in the infrastructure layer; entries are
// append-only and are never updated or deleted in the normal flow.
type Repository interface {
	// Insert persists a new score entry.
	Insert(ctx context.Context, entry *Entry) error

	// ListByUser returns all entries for a user ordered by test day
	// ascending. Every call re-queries the store: the caller always sees
	// the current persisted state, never a cached snapshot.
	ListByUser(ctx context.Context, username string) ([]*Entry, error)
}
