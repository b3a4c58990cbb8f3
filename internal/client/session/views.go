package session

import "github.com/dmitrijs2005/sessionkeeper/internal/models"

// IsAuthenticated reports whether a session is present and unexpired at the
// current time.
func (m *Manager) IsAuthenticated() bool {
	return m.State().Authenticated
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (m *Manager) CurrentUser() *models.User {
	return m.State().User
}

func (m *Manager) IsLoading() bool {
	return m.State().Loading
}

// LastError returns the recorded error message, or "".
func (m *Manager) LastError() string {
	return m.State().ErrorMessage()
}

// IsInitialized reports whether Restore has completed. Until then observers
// should not render anything that depends on authentication.
func (m *Manager) IsInitialized() bool {
	return m.State().Initialized
}

// Permissions returns the user's permissions; empty without a user.
func (m *Manager) Permissions() []string {
	u := m.State().User
	if u == nil {
		return []string{}
	}
	return append([]string{}, u.Permissions...)
}

// Role returns the user's role; false without a user.
func (m *Manager) Role() (string, bool) {
	u := m.State().User
	if u == nil {
		return "", false
	}
	return u.Role, true
}

// Authorization returns the authorization view of the current user. It
// exists only while a user is present.
func (m *Manager) Authorization() (Authorization, bool) {
	u := m.State().User
	if u == nil {
		return Authorization{}, false
	}
	return Authorization{role: u.Role, permissions: append([]string{}, u.Permissions...)}, true
}
