package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/platform/postgres"
	"github.com/phrazzld/users-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB implements postgres.DBTX. Only ExecContext is backed by data; the
// query methods fail the test because no case here should reach them.
type fakeDB struct {
	t       *testing.T
	result  sql.Result
	execErr error
	queries []string
}

func (f *fakeDB) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	f.queries = append(f.queries, query)
	return f.result, f.execErr
}

func (f *fakeDB) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	f.t.Fatal("unexpected QueryContext call")
	return nil, nil
}

func (f *fakeDB) QueryRowContext(context.Context, string, ...any) *sql.Row {
	f.t.Fatal("unexpected QueryRowContext call")
	return nil
}

func TestNewPostgresUserStorePanicsOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { postgres.NewPostgresUserStore(nil, nil) })
}

func TestPostgresUserStoreRejectsMalformedIDs(t *testing.T) {
	t.Parallel()

	db := &fakeDB{t: t}
	s := postgres.NewPostgresUserStore(db, nil)
	ctx := context.Background()
	name := "Bob"

	ids := []string{"not-a-uuid", "", "507f1f77bcf86cd799439011"}
	for _, id := range ids {
		_, err := s.GetByID(ctx, id)
		assert.ErrorIs(t, err, store.ErrInvalidID, "GetByID(%q)", id)

		_, err = s.Update(ctx, id, domain.UserPatch{Name: &name})
		assert.ErrorIs(t, err, store.ErrInvalidID, "Update(%q)", id)

		err = s.Delete(ctx, id)
		assert.ErrorIs(t, err, store.ErrInvalidID, "Delete(%q)", id)
	}

	assert.Empty(t, db.queries)
}

func TestPostgresUserStoreCreateValidatesBeforeInsert(t *testing.T) {
	t.Parallel()

	s := postgres.NewPostgresUserStore(&fakeDB{t: t}, nil)

	user := &domain.User{Name: "   ", Email: "a@example.com"}
	err := s.Create(context.Background(), user)

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrEmptyName)
	assert.Empty(t, user.ID)
}

func TestPostgresUserStoreUpdateValidatesPatch(t *testing.T) {
	t.Parallel()

	s := postgres.NewPostgresUserStore(&fakeDB{t: t}, nil)
	blank := "  "

	_, err := s.Update(
		context.Background(),
		"6f1c9b1e-64b5-4d4a-9f43-3a6c1c2b9d10",
		domain.UserPatch{Email: &blank},
	)

	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrEmptyEmail)
}

func TestPostgresUserStoreDelete(t *testing.T) {
	t.Parallel()

	const id = "6f1c9b1e-64b5-4d4a-9f43-3a6c1c2b9d10"

	tests := []struct {
		name     string
		db       *fakeDB
		expected error
	}{
		{
			name: "deleted",
			db:   &fakeDB{result: mockResult{rowsAffected: 1}},
		},
		{
			name:     "missing",
			db:       &fakeDB{result: mockResult{rowsAffected: 0}},
			expected: store.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.db.t = t
			s := postgres.NewPostgresUserStore(tt.db, nil)

			err := s.Delete(context.Background(), id)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
			assert.Len(t, tt.db.queries, 1)
		})
	}

	t.Run("exec failure", func(t *testing.T) {
		db := &fakeDB{t: t, execErr: errors.New("connection reset by peer")}
		s := postgres.NewPostgresUserStore(db, nil)

		err := s.Delete(context.Background(), id)

		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "delete", storeErr.Operation)
		assert.False(t, store.IsNotFoundError(err))
	})
}
