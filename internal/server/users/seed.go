package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type demoAccount struct {
	user     models.User
	password string
}

func demoAccounts(now time.Time) []demoAccount {
	day := func(d int) time.Time { return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC) }

	return []demoAccount{
		{
			password: "password",
			user: models.User{
				ID:              "1",
				Email:           "admin@example.com",
				FirstName:       "John",
				LastName:        "Doe",
				Role:            models.RoleAdmin,
				Permissions:     []string{"users:read", "users:write", "jobs:read", "jobs:write", "dashboard:admin"},
				IsActive:        true,
				IsEmailVerified: true,
				CreatedAt:       day(1),
				UpdatedAt:       now,
			},
		},
		{
			password: "password123",
			user: models.User{
				ID:              "2",
				Email:           "hr@example.com",
				FirstName:       "Jane",
				LastName:        "Smith",
				Role:            models.RoleHR,
				Permissions:     []string{"users:read", "jobs:read", "jobs:write", "candidates:read", "candidates:write"},
				IsActive:        true,
				IsEmailVerified: true,
				CreatedAt:       day(2),
				UpdatedAt:       now,
			},
		},
		{
			password: "user123",
			user: models.User{
				ID:              "3",
				Email:           "user@example.com",
				FirstName:       "Bob",
				LastName:        "Johnson",
				Role:            models.RoleEmployee,
				Permissions:     append([]string(nil), DefaultPermissions...),
				IsActive:        true,
				IsEmailVerified: false,
				CreatedAt:       day(3),
				UpdatedAt:       now,
			},
		},
	}
}

// SeedDemoUsers preloads the demo accounts. Accounts that already exist are
// left alone.
func (s *Service) SeedDemoUsers(ctx context.Context) error {
	for _, d := range demoAccounts(s.now().UTC()) {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), s.hashCost)
		if err != nil {
			return fmt.Errorf("hash %s: %w", d.user.Email, err)
		}
		_, err = s.repo.Create(ctx, &Account{User: d.user, PasswordHash: hash})
		if err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("seed %s: %w", d.user.Email, err)
		}
	}
	return nil
}
