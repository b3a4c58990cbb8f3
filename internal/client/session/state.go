package session

import (
	"errors"

	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
)

type Status int

const (
	StatusUnauthenticated Status = iota
	StatusAuthenticating
	StatusAuthenticated
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session as observers see it. User and Tokens
// are both set or both nil; treat what they point to as read-only.
type State struct {
	User          *models.User
	Tokens        *models.Tokens
	Authenticated bool
	Loading       bool
	Initialized   bool
	Status        Status
	Err           error
}

// ErrorMessage is the message of the last error, or "" when there is none.
// Backend rejections yield their message without detail lines.
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	var f *wire.Failure
	if errors.As(s.Err, &f) {
		return f.Message
	}
	return s.Err.Error()
}
