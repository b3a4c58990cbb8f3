package session

import (
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
)

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		m.logger = l.With("module", "session")
	}
}

// WithClock replaces time.Now for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithStaleResultGuard discards a backend result when a newer intent of the
// same kind was dispatched after it. Logout still clears the session.
func WithStaleResultGuard() Option {
	return func(m *Manager) {
		m.guardStale = true
	}
}
