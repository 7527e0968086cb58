package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
//
// Without function fields it behaves as an in-memory gateway with the same
// contract as the real ones: UUID ids, normalization, validation, unique
// emails and newest-first listing. Any function field that is set replaces
// the default for that method.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, user *domain.User) error
	ListFn    func(ctx context.Context) ([]*domain.User, error)
	GetByIDFn func(ctx context.Context, id string) (*domain.User, error)
	UpdateFn  func(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	DeleteFn  func(ctx context.Context, id string) error

	// Now supplies timestamps for the default implementation.
	Now func() time.Time

	mu    sync.Mutex
	users map[string]*storedUser
	seq   int64
	calls map[string]int
}

type storedUser struct {
	user domain.User
	seq  int64
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Now:   time.Now,
		users: make(map[string]*storedUser),
		calls: make(map[string]int),
	}
}

var _ store.UserStore = (*MockUserStore)(nil)

// Calls reports how many times method was invoked.
func (m *MockUserStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls reports the number of gateway calls of any kind.
func (m *MockUserStore) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// Len reports how many users are stored.
func (m *MockUserStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *MockUserStore) record(method string) {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
}

func (m *MockUserStore) now() time.Time {
	if m.Now == nil {
		return time.Now().UTC()
	}
	return m.Now().UTC()
}

func (m *MockUserStore) emailTaken(email, exceptID string) bool {
	for id, su := range m.users {
		if id != exceptID && su.user.Email == email {
			return true
		}
	}
	return false
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrInvalidID
	}
	return nil
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	user.Name = domain.NormalizeName(user.Name)
	user.Email = domain.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		return store.InvalidEntity(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emailTaken(user.Email, "") {
		return store.ErrEmailExists
	}

	now := m.now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	m.seq++
	m.users[user.ID] = &storedUser{user: *user, seq: m.seq}
	return nil
}

// List implements the UserStore interface
func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]*storedUser, 0, len(m.users))
	for _, su := range m.users {
		stored = append(stored, su)
	}
	sort.Slice(stored, func(i, j int) bool {
		a, b := stored[i], stored[j]
		if !a.user.CreatedAt.Equal(b.user.CreatedAt) {
			return a.user.CreatedAt.After(b.user.CreatedAt)
		}
		return a.seq > b.seq
	})

	users := make([]*domain.User, 0, len(stored))
	for _, su := range stored {
		u := su.user
		users = append(users, &u)
	}
	return users, nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if err := checkID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	su, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u := su.user
	return &u, nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(
	ctx context.Context,
	id string,
	patch domain.UserPatch,
) (*domain.User, error) {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	if err := checkID(id); err != nil {
		return nil, err
	}

	patch = patch.Normalized()
	if err := patch.Validate(); err != nil {
		return nil, store.InvalidEntity(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	su, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	if patch.Email != nil && m.emailTaken(*patch.Email, id) {
		return nil, store.ErrEmailExists
	}

	patch.Apply(&su.user)
	su.user.UpdatedAt = m.now()

	u := su.user
	return &u, nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if err := checkID(id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}
