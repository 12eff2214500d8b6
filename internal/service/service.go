// Package service holds the customer and device use cases. Every operation
// runs in one transaction and reports failures as apperror types.
package service

import (
	"context"
	"errors"

	"github.com/jbweber/homelab/customercare/internal/repository"
)

// Transactor runs fn inside a transaction carried by the context it is given
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// translateNotFound swaps a repository miss for the domain error built by notFound
func translateNotFound(err error, notFound func() error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound()
	}
	return err
}
