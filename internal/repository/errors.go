package repository

import "errors"

// Common repository errors that can be checked with errors.Is()
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrStaleEntity is returned when an update or delete carries a version
	// that no longer matches the stored row
	ErrStaleEntity = errors.New("entity was modified concurrently")

	// ErrInvalidEntity is returned when an entity cannot be stored as given
	ErrInvalidEntity = errors.New("invalid entity")
)
