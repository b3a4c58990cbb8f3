package cli

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/session"
)

// observe prints a line for every meaningful transition until states is
// closed.
func (a *App) observe(states <-chan session.State) {
	var prev session.State
	for st := range states {
		for _, line := range describeChange(prev, st) {
			fmt.Fprintln(a.out, line)
		}
		prev = st
	}
}

// describeChange renders the difference between two observed states.
// Nothing is reported before the session is initialized.
func describeChange(prev, next session.State) []string {
	if !next.Initialized {
		return nil
	}

	var lines []string
	switch {
	case !prev.Initialized && next.Authenticated:
		lines = append(lines, fmt.Sprintf("Restored session for %s", next.User.DisplayName()))
	case next.Status == session.StatusAuthenticated && (prev.Status != next.Status || userID(prev) != userID(next)):
		lines = append(lines, fmt.Sprintf("Signed in as %s <%s> (%s)", next.User.DisplayName(), next.User.Email, next.User.Role))
	case next.Status == session.StatusAuthenticated && profileChanged(prev, next):
		lines = append(lines, fmt.Sprintf("Profile updated: %s", next.User.DisplayName()))
	case next.Status == session.StatusExpired && prev.Status != session.StatusExpired:
		lines = append(lines, "Session expired, please log in again")
	case next.Status == session.StatusUnauthenticated && prev.User != nil && next.User == nil:
		lines = append(lines, "Signed out")
	}

	if next.Err != nil && next.Err != prev.Err {
		lines = append(lines, "Error: "+next.ErrorMessage())
	}
	return lines
}

func userID(st session.State) string {
	if st.User == nil {
		return ""
	}
	return st.User.ID
}

func profileChanged(prev, next session.State) bool {
	if prev.User == nil || next.User == nil {
		return false
	}
	p, n := prev.User, next.User
	return p.FirstName != n.FirstName ||
		p.LastName != n.LastName ||
		p.Avatar != n.Avatar ||
		p.Role != n.Role ||
		!slices.Equal(p.Permissions, n.Permissions)
}
