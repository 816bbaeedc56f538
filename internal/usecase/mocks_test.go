package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/integration/crm"
)

// MockBackend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Authenticate(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Me(ctx context.Context, token string) (*entity.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockBackend) UpdateMe(ctx context.Context, token string, u entity.User) error {
	args := m.Called(ctx, token, u)
	return args.Error(0)
}

func (m *MockBackend) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) (entity.PasswordChangeResult, error) {
	args := m.Called(ctx, token, oldPassword, newPassword)
	return args.Get(0).(entity.PasswordChangeResult), args.Error(1)
}

func (m *MockBackend) ListContacts(ctx context.Context, token string, q crm.ContactsQuery) (*crm.ContactsPage, error) {
	args := m.Called(ctx, token, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.ContactsPage), args.Error(1)
}

func (m *MockBackend) UpdateContact(ctx context.Context, token string, c entity.Contact) error {
	args := m.Called(ctx, token, c)
	return args.Error(0)
}

func (m *MockBackend) NextProspect(ctx context.Context, token string) (*entity.Contact, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contact), args.Error(1)
}

func (m *MockBackend) Stats(ctx context.Context, token string) (*entity.Stats, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stats), args.Error(1)
}

func (m *MockBackend) HomeMetrics(ctx context.Context, token string) (*entity.HomeMetrics, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.HomeMetrics), args.Error(1)
}

// memTokens is an in-memory TokenStore.
type memTokens struct {
	mu    sync.Mutex
	token string
}

func (s *memTokens) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *memTokens) Save(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *memTokens) Clear() {
	s.Save("")
}
