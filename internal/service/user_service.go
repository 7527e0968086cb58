package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/redact"
	"github.com/phrazzld/users-api/internal/store"
)

// CreateUserInput carries the fields accepted by CreateUser.
type CreateUserInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

// UpdateUserInput carries the fields accepted by UpdateUser.
// A nil field was not supplied by the caller.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// UserService provides the user CRUD operations.
// Every returned error is a *domain.Error.
type UserService interface {
	// CreateUser stores a new user. Both fields must be present.
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)

	// ListUsers returns every user, most recently created first.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// GetUser retrieves a user by id.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// UpdateUser applies the supplied fields and returns the updated user.
	// No field is required; the gateway validates whatever is supplied.
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)

	// DeleteUser permanently removes a user.
	DeleteUser(ctx context.Context, id string) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, logger *slog.Logger) UserService {
	if userStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		userStore: userStore,
		validate:  validator.New(),
		logger:    logger.With("component", "user_service"),
	}
}

// fail converts err and logs it at a level matching its kind.
func (s *UserServiceImpl) fail(ctx context.Context, op string, err error, attrs ...any) error {
	mapped := mapStoreError(err)
	log := logger.FromContextOrDefault(ctx, s.logger)

	args := append([]any{"operation", op, "kind", mapped.Kind.String()}, attrs...)
	if mapped.Kind == domain.KindInternal {
		log.Error("user operation failed", append(args, "error", redact.Error(err))...)
	} else {
		log.Debug("user operation rejected", append(args, "error", redact.Error(err))...)
	}
	return mapped
}

// CreateUser creates a new user after checking both fields are present
func (s *UserServiceImpl) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, s.fail(ctx, "create", err)
		}
		logger.FromContextOrDefault(ctx, s.logger).Debug("create rejected: missing fields",
			"fields", len(verrs))
		return nil, domain.NewValidationFailure(MsgRequiredFields)
	}

	user := &domain.User{Name: input.Name, Email: input.Email}
	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	s.logger.Info("user created", "user_id", user.ID)
	return user, nil
}

// ListUsers returns all users, newest first
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get", err, "user_id", id)
	}
	return user, nil
}

// UpdateUser applies a partial update in a single gateway call
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	id string,
	input UpdateUserInput,
) (*domain.User, error) {
	patch := domain.UserPatch{Name: input.Name, Email: input.Email}

	user, err := s.userStore.Update(ctx, id, patch)
	if err != nil {
		return nil, s.fail(ctx, "update", err, "user_id", id)
	}

	s.logger.Info("user updated", "user_id", user.ID)
	return user, nil
}

// DeleteUser deletes a user by their ID
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	if err := s.userStore.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete", err, "user_id", id)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}
