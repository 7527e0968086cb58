// Package mocks provides centralized mock implementations for testing.
//
// Two flavors of store.UserStore are available. MockUserStore is a working
// in-memory gateway whose methods can be overridden through function fields:
//
//	s := mocks.NewMockUserStore()
//	s.GetByIDFn = func(ctx context.Context, id string) (*domain.User, error) {
//	    return nil, errors.New("connection reset")
//	}
//
// TestifyMockUserStore is a testify/mock double for tests that assert on
// exact calls and arguments.
package mocks
