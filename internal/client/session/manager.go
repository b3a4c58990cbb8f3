package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
)

// Backend is the identity backend as the state machine uses it.
// client.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, r models.Registration) (*models.Session, error)
	Logout(ctx context.Context) error
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, patch models.UserPatch) (*models.User, error)
}

// Store persists the session. Load returns (nil, nil) when nothing is
// stored and an error wrapping common.ErrCorruptSession for unreadable
// records. The Manager is its only writer.
type Store interface {
	Save(ctx context.Context, sess models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Purge(ctx context.Context) error
}

type intentKind int

const (
	intentAuth intentKind = iota // login and register
	intentLogout
	intentValidate
	intentProfile
	intentKinds
)

type Manager struct {
	backend    Backend
	store      Store
	logger     logging.Logger
	now        func() time.Time
	guardStale bool

	mu             sync.Mutex
	session        *models.Session
	err            error
	initialized    bool
	restoreStarted bool
	expired        bool
	inflight       int
	authenticating int
	seq            [intentKinds]uint64
	state          State
	subs           map[uint64]chan State
	nextSub        uint64
}

func NewManager(backend Backend, store Store, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		store:   store,
		logger:  logging.NewDiscardLogger(),
		now:     time.Now,
		subs:    make(map[uint64]chan State),
	}
	for _, o := range opts {
		o(m)
	}
	m.state = m.snapshotLocked()
	return m
}

// Restore loads the persisted session. Only the first call does anything;
// later calls return the current state. A missing, unreadable or expired
// session leaves the machine unauthenticated, and unreadable or expired
// records are purged. Initialized is always true afterwards.
func (m *Manager) Restore(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.restoreStarted {
		if m.expireLocked(ctx) {
			return m.publishLocked(ctx)
		}
		return m.state
	}
	m.restoreStarted = true
	m.inflight++
	m.publishLocked(ctx)

	sess, err := m.store.Load(ctx)
	switch {
	case errors.Is(err, common.ErrCorruptSession):
		m.logger.Warn(ctx, "discarding unreadable session", "error", err)
		m.purgeLocked(ctx)
	case err != nil:
		m.logger.Warn(ctx, "session store unavailable", "error", err)
	case sess == nil:
		m.logger.Debug(ctx, "no stored session")
	case !sess.Tokens.ValidAt(m.now()):
		m.logger.Info(ctx, "stored session expired", "user_id", sess.User.ID, "expires_at", sess.Tokens.ExpiresAt)
		m.purgeLocked(ctx)
		m.expired = true
	case m.session != nil:
		// An intent settled before restore; it is newer than anything on disk.
		m.logger.Debug(ctx, "stored session superseded", "user_id", sess.User.ID)
	default:
		s := sess.Clone()
		m.session = &s
		m.logger.Info(ctx, "session restored", "user_id", s.User.ID, "expires_at", s.Tokens.ExpiresAt)
	}

	m.inflight--
	m.initialized = true
	return m.publishLocked(ctx)
}

// Login authenticates with the backend. On success the returned session
// replaces the current one and is persisted. On failure the current session
// is kept and the error recorded. RememberMe is a hint only; sessions are
// always persisted.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) State {
	seq := m.beginAuth(ctx)
	sess, err := m.backend.Login(ctx, creds.Email, creds.Password)
	return m.settleAuth(ctx, "login", seq, sess, err)
}

// Register creates an account and signs it in, like Login.
func (m *Manager) Register(ctx context.Context, r models.Registration) State {
	seq := m.beginAuth(ctx)
	sess, err := m.backend.Register(ctx, r)
	return m.settleAuth(ctx, "register", seq, sess, err)
}

func (m *Manager) beginAuth(ctx context.Context) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq[intentAuth]++
	m.inflight++
	m.authenticating++
	m.err = nil
	m.publishLocked(ctx)
	return m.seq[intentAuth]
}

func (m *Manager) settleAuth(ctx context.Context, op string, seq uint64, sess *models.Session, err error) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inflight--
	m.authenticating--

	switch {
	case m.staleLocked(intentAuth, seq):
		m.logger.Info(ctx, "discarding stale result", "intent", op)
	case err != nil:
		m.logger.Info(ctx, op+" failed", "error", err)
		m.err = err
	case sess == nil:
		m.err = wire.NewFailure(op + " returned no session")
	default:
		m.adoptLocked(ctx, *sess)
		m.err = nil
		m.logger.Info(ctx, op+" succeeded", "user_id", sess.User.ID)
	}
	return m.publishLocked(ctx)
}

// Logout tells the backend and then clears the session and the store
// whatever the backend answered. A backend failure is recorded as the error;
// success clears it.
func (m *Manager) Logout(ctx context.Context) State {
	m.mu.Lock()
	m.supersedeLocked()
	seq := m.seq[intentLogout]
	m.inflight++
	m.publishLocked(ctx)
	m.mu.Unlock()

	err := m.backend.Logout(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.inflight--
	m.clearLocked(ctx)
	if !m.staleLocked(intentLogout, seq) {
		m.err = err
		if err != nil {
			m.logger.Warn(ctx, "backend logout failed", "error", err)
		}
	}
	return m.publishLocked(ctx)
}

// ValidateToken checks token with the backend. Success refreshes the
// current user in memory and in the store, leaving the tokens alone; the
// result is ignored when there is no session or it belongs to another user.
// A rejection of the session's own access token clears the session and the
// store without recording an error; rejections of any other token are
// ignored. Loading is not affected.
func (m *Manager) ValidateToken(ctx context.Context, token string) State {
	m.mu.Lock()
	m.seq[intentValidate]++
	seq := m.seq[intentValidate]
	m.mu.Unlock()

	user, err := m.backend.ValidateToken(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.expireLocked(ctx) {
		return m.publishLocked(ctx)
	}

	switch {
	case m.staleLocked(intentValidate, seq):
		m.logger.Info(ctx, "discarding stale result", "intent", "validate")
		return m.state
	case err != nil && (m.session == nil || m.session.Tokens.AccessToken != token):
		m.logger.Debug(ctx, "rejected token is not the session's", "error", err)
		return m.state
	case err != nil:
		m.logger.Info(ctx, "token rejected, clearing session", "error", err)
		m.clearLocked(ctx)
	case user == nil || m.session == nil || m.session.User.ID != user.ID:
		m.logger.Debug(ctx, "validated user does not match the session")
		return m.state
	default:
		m.session.User = user.Clone()
		m.saveLocked(ctx)
	}
	return m.publishLocked(ctx)
}

// ValidateCurrent validates the current access token. Without a session it
// only returns the state.
func (m *Manager) ValidateCurrent(ctx context.Context) State {
	m.mu.Lock()
	if m.expireLocked(ctx) {
		defer m.mu.Unlock()
		return m.publishLocked(ctx)
	}
	if m.session == nil {
		defer m.mu.Unlock()
		return m.state
	}
	token := m.session.Tokens.AccessToken
	m.mu.Unlock()

	return m.ValidateToken(ctx, token)
}

// ClearError drops the recorded error and nothing else.
func (m *Manager) ClearError() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = nil
	return m.publishLocked(context.Background())
}

// UpdateUser merges the allow-listed patch fields into the current user and
// writes it through. It is a no-op without a user. UpdatedAt is left as is.
func (m *Manager) UpdateUser(ctx context.Context, patch models.UserPatch) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.expireLocked(ctx) {
		return m.publishLocked(ctx)
	}
	if m.session == nil || patch.Empty() {
		return m.state
	}
	m.session.User = m.session.User.Apply(patch)
	m.saveLocked(ctx)
	return m.publishLocked(ctx)
}

// SaveProfile sends patch to the backend and adopts the user it returns.
// Failure records the error and keeps the session. No-op without a session.
func (m *Manager) SaveProfile(ctx context.Context, patch models.UserPatch) State {
	m.mu.Lock()
	if m.expireLocked(ctx) {
		defer m.mu.Unlock()
		return m.publishLocked(ctx)
	}
	if m.session == nil {
		defer m.mu.Unlock()
		return m.state
	}
	m.seq[intentProfile]++
	seq := m.seq[intentProfile]
	token := m.session.Tokens.AccessToken
	m.inflight++
	m.err = nil
	m.publishLocked(ctx)
	m.mu.Unlock()

	user, err := m.backend.UpdateProfile(ctx, token, patch)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.inflight--
	switch {
	case m.staleLocked(intentProfile, seq):
		m.logger.Info(ctx, "discarding stale result", "intent", "profile")
	case err != nil:
		m.logger.Info(ctx, "profile update failed", "error", err)
		m.err = err
	case user == nil || m.session == nil || m.session.User.ID != user.ID:
		m.logger.Debug(ctx, "updated profile no longer matches the session")
	default:
		m.session.User = user.Clone()
		m.saveLocked(ctx)
	}
	return m.publishLocked(ctx)
}

// Clear drops the session and the error and purges the store without
// calling the backend.
func (m *Manager) Clear(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.supersedeLocked()
	m.clearLocked(ctx)
	m.err = nil
	return m.publishLocked(ctx)
}

// CheckExpiry ends a session whose tokens have expired, moving to Expired.
func (m *Manager) CheckExpiry(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.expireLocked(ctx) {
		return m.state
	}
	return m.publishLocked(ctx)
}

// State returns the current state. A session whose tokens expired since
// the last transition is ended first, so the result never reports an
// expired session as authenticated.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx := context.Background()
	if m.expireLocked(ctx) {
		return m.publishLocked(ctx)
	}
	return m.state
}

// supersedeLocked marks every in-flight intent as older than what follows.
func (m *Manager) supersedeLocked() {
	for k := range m.seq {
		m.seq[k]++
	}
}

func (m *Manager) staleLocked(kind intentKind, seq uint64) bool {
	return m.guardStale && m.seq[kind] != seq
}

// expireLocked ends the session once its tokens are no longer valid and
// reports whether it did.
func (m *Manager) expireLocked(ctx context.Context) bool {
	if m.session == nil || m.session.Tokens.ValidAt(m.now()) {
		return false
	}

	m.logger.Info(ctx, "session expired", "user_id", m.session.User.ID, "expires_at", m.session.Tokens.ExpiresAt)
	m.clearLocked(ctx)
	m.expired = true
	return true
}

func (m *Manager) adoptLocked(ctx context.Context, sess models.Session) {
	s := sess.Clone()
	m.session = &s
	m.expired = false
	m.saveLocked(ctx)
}

func (m *Manager) clearLocked(ctx context.Context) {
	m.session = nil
	m.expired = false
	m.purgeLocked(ctx)
}

// Store writes outlive the caller's context so a settled transition is
// always persisted.
func (m *Manager) saveLocked(ctx context.Context) {
	if err := m.store.Save(context.WithoutCancel(ctx), m.session.Clone()); err != nil {
		m.logger.Warn(ctx, "session store write failed", "error", err)
	}
}

func (m *Manager) purgeLocked(ctx context.Context) {
	if err := m.store.Purge(context.WithoutCancel(ctx)); err != nil {
		m.logger.Warn(ctx, "session store purge failed", "error", err)
	}
}

func (m *Manager) snapshotLocked() State {
	st := State{
		Loading:     m.inflight > 0,
		Initialized: m.initialized,
		Err:         m.err,
	}
	if m.session != nil {
		u := m.session.User.Clone()
		t := m.session.Tokens
		st.User = &u
		st.Tokens = &t
		// publishLocked has already ended an expired session.
		st.Authenticated = true
	}

	switch {
	case m.authenticating > 0:
		st.Status = StatusAuthenticating
	case st.Authenticated:
		st.Status = StatusAuthenticated
	case m.expired:
		st.Status = StatusExpired
	default:
		st.Status = StatusUnauthenticated
	}
	return st
}
