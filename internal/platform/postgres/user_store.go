package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/store"
)

// DBTX is implemented by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const userColumns = `id, name, email, created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// parseID converts an opaque id into a UUID, reporting store.ErrInvalidID on failure.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", store.ErrInvalidID, err)
	}
	return parsed, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		user domain.User
		id   uuid.UUID
	)
	if err := row.Scan(&id, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.ID = id.String()
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user.Name = domain.NormalizeName(user.Name)
	user.Email = domain.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		log.Debug("user validation failed during create", slog.String("error", err.Error()))
		return store.InvalidEntity(err)
	}

	id := uuid.New()
	query := `
		INSERT INTO users (id, name, email)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query, id, user.Name, user.Email).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already exists", slog.String("user_id", id.String()))
			return MapUniqueViolation(err, store.ErrEmailExists)
		}
		if mapped := MapError(err); mapped != err {
			return mapped
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return store.NewStoreError("user", "create", "failed to insert user", err)
	}

	user.ID = id.String()
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()

	log.Debug("user created", slog.String("user_id", user.ID))
	return nil
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "list", "failed to query users", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, store.NewStoreError("user", "list", "failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("user", "list", "failed to iterate users", err)
	}

	return users, nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("user_id", id))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()), slog.String("user_id", id))
		return nil, store.NewStoreError("user", "get", "failed to query user", MapError(err))
	}

	return user, nil
}

// Update implements store.UserStore.Update
// Absent patch fields are left as stored through COALESCE, so the update is a
// single statement and never partially applies.
func (s *PostgresUserStore) Update(
	ctx context.Context,
	id string,
	patch domain.UserPatch,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	patch = patch.Normalized()
	if err := patch.Validate(); err != nil {
		log.Debug("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", id))
		return nil, store.InvalidEntity(err)
	}

	query := `
		UPDATE users
		SET name = COALESCE($2, name),
			email = COALESCE($3, email),
			updated_at = clock_timestamp()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(s.db.QueryRowContext(ctx, query, uid, patch.Name, patch.Email))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			log.Debug("user not found for update", slog.String("user_id", id))
			return nil, store.ErrUserNotFound
		case IsUniqueViolation(err):
			return nil, MapUniqueViolation(err, store.ErrEmailExists)
		}
		if mapped := MapError(err); mapped != err {
			return nil, mapped
		}
		log.Error("failed to update user", slog.String("error", err.Error()), slog.String("user_id", id))
		return nil, store.NewStoreError("user", "update", "failed to update user", err)
	}

	log.Debug("user updated", slog.String("user_id", id))
	return user, nil
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	uid, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, uid)
	if err != nil {
		log.Error("failed to delete user", slog.String("error", err.Error()), slog.String("user_id", id))
		return store.NewStoreError("user", "delete", "failed to delete user", err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Debug("user deleted", slog.String("user_id", id))
	return nil
}
