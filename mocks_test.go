package authflow_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	authflow "github.com/primersio/go-authflow"
)

// MockIdentityClient implements authflow.IdentityClient
type MockIdentityClient struct {
	mock.Mock
}

func (m *MockIdentityClient) Verify(ctx context.Context, token string) (*authflow.Identity, error) {
	args := m.Called(ctx, token)
	if identity, ok := args.Get(0).(*authflow.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityClient) Login(ctx context.Context, email, password string) (*authflow.Credentials, error) {
	args := m.Called(ctx, email, password)
	if creds, ok := args.Get(0).(*authflow.Credentials); ok {
		return creds, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityClient) Register(ctx context.Context, name, email, password string) (*authflow.Credentials, error) {
	args := m.Called(ctx, name, email, password)
	if creds, ok := args.Get(0).(*authflow.Credentials); ok {
		return creds, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityClient) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockTokenStore implements authflow.TokenStore for failure simulation;
// happy paths use the real MemoryTokenStore.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Save(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockTokenStore) Load() (string, bool, error) {
	args := m.Called()
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockTokenStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}
