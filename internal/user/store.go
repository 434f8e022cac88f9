package user

import "context"

// Store is the persistence contract for user records. Each method is a
// single atomic operation against the backing store; timestamps are
// assigned by the store so created_at == updated_at holds exactly at
// creation, and ids are allocated monotonically and never reused.
type Store interface {
	// Create inserts a new user and returns it with store-assigned id and
	// timestamps.
	Create(ctx context.Context, in CreateInput) (*User, error)

	// GetByID returns a user or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*User, error)

	// List returns one page of users ordered by id ascending plus the
	// total count.
	List(ctx context.Context, page PageRequest) (*PageResult, error)

	// Update applies the supplied fields only, refreshes updated_at, and
	// returns the full updated user, or ErrNotFound.
	Update(ctx context.Context, id int64, in UpdateInput) (*User, error)

	// Delete removes a user, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
}
