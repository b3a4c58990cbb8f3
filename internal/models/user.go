// Package models holds the identity records exchanged between the identity
// backend, the session store and the session state machine.
package models

import (
	"slices"
	"time"
)

// Roles issued by the reference identity backend.
const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

// User is the identity record of an account. Email is the case-insensitive
// unique key. Only the display fields listed in UserPatch may change after
// creation.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Avatar          string    `json:"avatar,omitempty"`
	Role            string    `json:"role"`
	Permissions     []string  `json:"permissions"`
	IsActive        bool      `json:"isActive"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	u.Permissions = slices.Clone(u.Permissions)
	return u
}

// DisplayName is "First Last", falling back to the email.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}

// UserPatch is the allow-listed subset of User fields a profile update may
// change. Nil fields are left untouched.
type UserPatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Avatar == nil
}

// Apply returns a copy of u with the non-nil patch fields merged in.
// UpdatedAt is not touched; the backend owns that timestamp.
func (u User) Apply(p UserPatch) User {
	out := u.Clone()
	if p.FirstName != nil {
		out.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		out.LastName = *p.LastName
	}
	if p.Avatar != nil {
		out.Avatar = *p.Avatar
	}
	return out
}
