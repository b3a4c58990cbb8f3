package client

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/models"
)

// Client talks to the identity backend.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, r models.Registration) (*models.Session, error)
	// Logout is advisory. It ends the session last issued through this client.
	Logout(ctx context.Context) error
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, patch models.UserPatch) (*models.User, error)
	Ping(ctx context.Context) error
	Close() error
}

// Fallback messages used when a failure carries no message of its own.
const (
	LoginFailed    = "Login failed"
	RegisterFailed = "Registration failed"
	LogoutFailed   = "Logout failed"
	ValidateFailed = "Token validation failed"
	UpdateFailed   = "Profile update failed"
)
