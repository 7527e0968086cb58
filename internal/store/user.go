package store

import (
	"context"

	"github.com/phrazzld/users-api/internal/domain"
)

// UserStore defines the persistence gateway for user records.
//
// Identifiers are opaque strings whose format belongs to the implementation.
// An id the implementation cannot parse yields ErrInvalidID. Implementations
// own id generation and both timestamps.
type UserStore interface {
	// Create saves a new user, assigning its ID, CreatedAt and UpdatedAt.
	// Returns ErrEmailExists if the email is already taken.
	// Returns ErrInvalidEntity if the user fails domain validation.
	Create(ctx context.Context, user *domain.User) error

	// List returns every user, most recently created first.
	// An empty store yields an empty, non-nil slice.
	List(ctx context.Context) ([]*domain.User, error)

	// GetByID retrieves a user by id.
	// Returns ErrUserNotFound if no user matches.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// Update applies the supplied fields of patch to the user with the given id
	// and returns the post-update record. The patch is normalized and validated
	// with the same rules as creation, and UpdatedAt is refreshed.
	// Returns ErrUserNotFound, ErrEmailExists or ErrInvalidEntity.
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)

	// Delete permanently removes the user with the given id.
	// Returns ErrUserNotFound if nothing was deleted.
	Delete(ctx context.Context, id string) error
}
