package repository

import "context"

// Repository is the persistence contract shared by customers and devices.
// Save assigns the identifier and audit metadata of a new entity, and bumps
// the version of an existing one.
type Repository[T any, ID comparable] interface {
	// Save inserts a new entity or updates a loaded one.
	// Returns ErrStaleEntity if the stored version moved on since it was read.
	Save(ctx context.Context, entity T) (T, error)

	// FindByID returns ErrNotFound if the entity doesn't exist
	FindByID(ctx context.Context, id ID) (T, error)

	// Delete removes a loaded entity, checking its version.
	// Returns ErrNotFound if it is already gone and ErrStaleEntity if it changed.
	Delete(ctx context.Context, entity T) error

	ExistsByID(ctx context.Context, id ID) (bool, error)
}
