package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/filesmanager/pkg/auth"
)

// MockAccountStore is a mock implementation of auth.AccountStore.
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindAccountByEmail(ctx context.Context, email string) (auth.Account, bool, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(auth.Account), args.Bool(1), args.Error(2)
}

// MockSessions is a mock implementation of auth.Sessions.
type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Create(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSessions) Revoke(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}
