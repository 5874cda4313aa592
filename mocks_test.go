package auth_test

import (
	"context"
	"sync"
	"time"

	auth "github.com/SnowLynxSoftware/auth-microservice-template"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// testLogger swallows log output so failures read clean.
type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockAccountStore implements auth.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockAccountStore) FindByID(ctx context.Context, id string) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockAccountStore) CreateAccount(ctx context.Context, email, passwordHash string) (*auth.User, error) {
	args := m.Called(ctx, email, passwordHash)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockAccountStore) SaveAccount(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	saved, _ := args.Get(0).(*auth.User)
	return saved, args.Error(1)
}

// captureSink records activity events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (s *captureSink) Record(_ context.Context, event auth.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) Events() []auth.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auth.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

// memStore is an in-memory Users implementation for flow and HTTP tests.
// The embedded interface covers methods the tests never reach.
type memStore struct {
	auth.Users

	mu      sync.Mutex
	byID    map[string]*auth.User
	byEmail map[string]*auth.User
}

func newMemStore() *memStore {
	return &memStore{
		byID:    map[string]*auth.User{},
		byEmail: map[string]*auth.User{},
	}
}

func (s *memStore) put(user *auth.User) *auth.User {
	clone := *user
	s.byID[clone.ID.String()] = &clone
	s.byEmail[clone.Email] = &clone
	out := clone
	return &out
}

// SaveAccountSeed inserts a user directly, bypassing the registration flow.
func (s *memStore) SaveAccountSeed(user *auth.User) *auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(user)
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byEmail[auth.NormalizeEmail(email)]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}
	clone := *user
	return &clone, nil
}

func (s *memStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}
	clone := *user
	return &clone, nil
}

func (s *memStore) CreateAccount(_ context.Context, email, passwordHash string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &auth.User{
		ID:           uuid.New(),
		Email:        auth.NormalizeEmail(email),
		PasswordHash: passwordHash,
	}

	return s.put(user), nil
}

func (s *memStore) SaveAccount(_ context.Context, user *auth.User) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[user.ID.String()]; !ok {
		return nil, repository.NewRecordNotFound()
	}

	return s.put(user), nil
}

func (s *memStore) Ban(_ context.Context, id uuid.UUID, reason string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id.String()]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}

	user.IsBanned = true
	user.BanReason = reason
	return s.put(user), nil
}

func (s *memStore) Unban(_ context.Context, id uuid.UUID) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id.String()]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}

	user.IsBanned = false
	user.BanReason = ""
	return s.put(user), nil
}

func (s *memStore) Archive(_ context.Context, id uuid.UUID) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id.String()]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}

	now := time.Now()
	user.ArchivedAt = &now
	return s.put(user), nil
}

func (s *memStore) Restore(_ context.Context, id uuid.UUID) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id.String()]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}

	user.ArchivedAt = nil
	return s.put(user), nil
}

// memRepoManager satisfies auth.RepositoryManager for HTTP tests. Only
// Users is live; the embedded interface covers the rest.
type memRepoManager struct {
	auth.RepositoryManager
	users *memStore
}

func (m *memRepoManager) Users() auth.Users {
	return m.users
}

func newTestConfig() *auth.Config {
	return &auth.Config{
		VerificationSecret: "verification-test-secret",
		AccessSecret:       "access-test-secret",
		RefreshSecret:      "refresh-test-secret",
		Port:               "9001",
		Env:                "test",
		DSN:                "file::memory:?cache=shared",
	}
}

func newTestTokenService(opts ...auth.TokenServiceOption) *auth.TokenService {
	opts = append([]auth.TokenServiceOption{auth.WithTokenLogger(testLogger{})}, opts...)
	tokens, err := auth.NewTokenService(newTestConfig(), opts...)
	if err != nil {
		panic(err)
	}
	return tokens
}

func verifiedUser(email string) *auth.User {
	hash, err := auth.HashPassword("P@ss1")
	if err != nil {
		panic(err)
	}
	return &auth.User{
		ID:           uuid.New(),
		Email:        auth.NormalizeEmail(email),
		PasswordHash: hash,
		Verified:     true,
	}
}
