package users

import (
	"context"
)

// Repository stores accounts. Email lookups are case-insensitive.
// Missing accounts are reported as common.ErrorNotFound and duplicate
// emails as common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	Update(ctx context.Context, account *Account) error
}
