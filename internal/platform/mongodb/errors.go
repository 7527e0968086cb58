package mongodb

import (
	"errors"
	"fmt"

	"github.com/phrazzld/users-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// MapError translates driver errors into store sentinels, wrapping the
// original so it stays available for logging. Unrecognized errors are
// returned unchanged.
func MapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}
	return err
}

// mapUserError is MapError with the user-specific sentinels.
func mapUserError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrUserNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
	}
	return MapError(err)
}
