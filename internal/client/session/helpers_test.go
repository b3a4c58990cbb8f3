package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/sessionkeeper/internal/client/store"
	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: baseTime}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// fakeBackend answers with the configured funcs; a nil func fails.
type fakeBackend struct {
	login    func(ctx context.Context, email, password string) (*models.Session, error)
	register func(ctx context.Context, r models.Registration) (*models.Session, error)
	logout   func(ctx context.Context) error
	validate func(ctx context.Context, token string) (*models.User, error)
	update   func(ctx context.Context, token string, patch models.UserPatch) (*models.User, error)
}

var errNotConfigured = errors.New("not configured")

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if f.login == nil {
		return nil, errNotConfigured
	}
	return f.login(ctx, email, password)
}

func (f *fakeBackend) Register(ctx context.Context, r models.Registration) (*models.Session, error) {
	if f.register == nil {
		return nil, errNotConfigured
	}
	return f.register(ctx, r)
}

func (f *fakeBackend) Logout(ctx context.Context) error {
	if f.logout == nil {
		return nil
	}
	return f.logout(ctx)
}

func (f *fakeBackend) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	if f.validate == nil {
		return nil, errNotConfigured
	}
	return f.validate(ctx, token)
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, token string, patch models.UserPatch) (*models.User, error) {
	if f.update == nil {
		return nil, errNotConfigured
	}
	return f.update(ctx, token, patch)
}

// failingStore fails every call it is told to.
type failingStore struct {
	Store
	saveErr, loadErr, purgeErr error
	saves, purges             int
}

func (s *failingStore) Save(ctx context.Context, sess models.Session) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Store.Save(ctx, sess)
}

func (s *failingStore) Load(ctx context.Context) (*models.Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.Store.Load(ctx)
}

func (s *failingStore) Purge(ctx context.Context) error {
	s.purges++
	if s.purgeErr != nil {
		return s.purgeErr
	}
	return s.Store.Purge(ctx)
}

func sessionFor(id string, expiresAt time.Time) *models.Session {
	return &models.Session{
		User: models.User{
			ID:          id,
			Email:       id + "@example.com",
			FirstName:   "First-" + id,
			LastName:    "Last-" + id,
			Role:        models.RoleEmployee,
			Permissions: []string{"jobs:read"},
			IsActive:    true,
			CreatedAt:   baseTime.Add(-24 * time.Hour),
			UpdatedAt:   baseTime.Add(-time.Hour),
		},
		Tokens: models.Tokens{
			AccessToken:  "access-" + id,
			RefreshToken: "refresh-" + id,
			ExpiresAt:    expiresAt,
			TokenType:    models.TokenTypeBearer,
		},
	}
}

func newMemoryStore() *store.Store {
	return store.New(records.NewMemoryRepository())
}

func stored(t *testing.T, s Store) *models.Session {
	t.Helper()
	sess, err := s.Load(context.Background())
	require.NoError(t, err)
	return sess
}

// assertInvariants checks the properties every settled state must hold.
func assertInvariants(t *testing.T, st State, now time.Time) {
	t.Helper()
	assert.Equal(t, st.User == nil, st.Tokens == nil, "user and tokens travel together")
	want := st.User != nil && st.Tokens != nil && now.Before(st.Tokens.ExpiresAt)
	assert.Equal(t, want, st.Authenticated, "authenticated is derived from the session")
	if st.Authenticated {
		assert.Equal(t, StatusAuthenticated, st.Status)
	}
}
