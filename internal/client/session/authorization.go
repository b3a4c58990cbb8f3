package session

import "slices"

// Authorization is the role and permission view of a signed-in user.
type Authorization struct {
	role        string
	permissions []string
}

func (a Authorization) Role() string {
	return a.role
}

// Permissions returns a copy of the capability strings.
func (a Authorization) Permissions() []string {
	return slices.Clone(a.permissions)
}

// Can reports whether the user holds permission.
func (a Authorization) Can(permission string) bool {
	return slices.Contains(a.permissions, permission)
}

// HasRole reports whether the user's role is one of roles.
func (a Authorization) HasRole(roles ...string) bool {
	return slices.Contains(roles, a.role)
}
