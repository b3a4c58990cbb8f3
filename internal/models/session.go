package models

import "time"

// TokenTypeBearer is the only token type issued and accepted.
const TokenTypeBearer = "Bearer"

// Tokens is the credential set of a session. AccessToken and RefreshToken are
// opaque; the refresh token is stored but never used for renewal.
type Tokens struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}

// ValidAt reports whether the tokens are usable at now. Expiry is a hard,
// exclusive boundary: tokens expiring exactly at now are invalid.
func (t Tokens) ValidAt(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}

// Session pairs a User with its Tokens. The two only ever travel together.
type Session struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	return Session{User: s.User.Clone(), Tokens: s.Tokens}
}

// Credentials are the inputs of a login intent. RememberMe is a persistence
// hint only; sessions are always written through.
type Credentials struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

// Registration are the inputs of a register intent. The backend checks that
// ConfirmPassword equals Password.
type Registration struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}
