// Package users is the reference identity directory: account storage,
// credential checks and token issuance behind the identity backend contract.
package users

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/auth"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/config"
	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DefaultPermissions are granted to self-registered accounts.
var DefaultPermissions = []string{"jobs:read", "profile:read", "profile:write"}

// Rejections the service reports to callers. Each is a *wire.Failure so the
// message reaches the client unchanged.
var (
	errLoginRequired    = wire.NewFailure("Email and password are required", "Email and password are required")
	errLoginEmailFormat = wire.NewFailure("Invalid email format", "Invalid email format")
	errBadCredentials   = wire.NewFailure("Invalid credentials", "Invalid email or password")
	errAccountInactive  = wire.NewFailure("Account is deactivated", "Your account has been deactivated. Please contact support.")
	errTooManyLogins    = wire.NewFailure("Too many login attempts", "Please wait before trying again")

	errRegisterRequired  = wire.NewFailure("All fields are required", "Email, password, first name, and last name are required")
	errRegisterEmail     = wire.NewFailure("Invalid email format", "Please enter a valid email address")
	errPasswordTooWeak   = wire.NewFailure("Password too weak", "Password must be at least 6 characters long")
	errPasswordsMismatch = wire.NewFailure("Passwords do not match", "Password and confirm password must match")
	errUserExists        = wire.NewFailure("User already exists", "An account with this email already exists")

	errInvalidToken    = wire.NewFailure("Invalid token", "Token is invalid or expired")
	errUserNotFound    = wire.NewFailure("User not found", "User associated with token not found")
	errUserDeactivated = wire.NewFailure("Account deactivated", "User account is deactivated")
)

type Service struct {
	repo                         Repository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	latency                      time.Duration
	hashCost                     int
	limiter                      *loginLimiter
	now                          func() time.Time
}

func NewService(repo Repository, cfg *config.Config) *Service {
	s := &Service{
		repo:                         repo,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		latency:                      cfg.SimulatedLatency,
		hashCost:                     cfg.PasswordHashCost,
		now:                          time.Now,
	}
	if cfg.LoginRatePerMinute > 0 {
		s.limiter = newLoginLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)
	}
	return s
}

// Login checks the credentials and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	if validation.Validate(email, validation.Required) != nil ||
		validation.Validate(password, validation.Required) != nil {
		return nil, errLoginRequired
	}
	if validation.Validate(email, validation.Match(emailPattern)) != nil {
		return nil, errLoginEmailFormat
	}
	if s.limiter != nil && !s.limiter.allow(email) {
		return nil, errTooManyLogins
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		return nil, errBadCredentials
	}
	if !account.IsActive {
		return nil, errAccountInactive
	}

	return s.issue(account.User)
}

// Register creates an employee account and signs it in.
func (s *Service) Register(ctx context.Context, r models.Registration) (*models.Session, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	for _, v := range []string{r.Email, r.Password, r.FirstName, r.LastName} {
		if validation.Validate(v, validation.Required) != nil {
			return nil, errRegisterRequired
		}
	}
	if validation.Validate(r.Email, validation.Match(emailPattern)) != nil {
		return nil, errRegisterEmail
	}
	if validation.Validate(r.Password, validation.Length(6, 0)) != nil {
		return nil, errPasswordTooWeak
	}
	if r.Password != r.ConfirmPassword {
		return nil, errPasswordsMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account, err := s.repo.Create(ctx, &Account{
		User: models.User{
			ID:          uuid.NewString(),
			Email:       strings.ToLower(r.Email),
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			Role:        models.RoleEmployee,
			Permissions: append([]string(nil), DefaultPermissions...),
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, errUserExists
		}
		return nil, err
	}

	return s.issue(account.User)
}

// Logout always succeeds; tokens are stateless and simply expire.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.delay(ctx)
}

// ValidateToken resolves an access token to its active user.
func (s *Service) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	account, err := s.accountForToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &account.User, nil
}

// UpdateProfile applies the allow-listed patch to the token's user and
// bumps UpdatedAt.
func (s *Service) UpdateProfile(ctx context.Context, token string, patch models.UserPatch) (*models.User, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	account, err := s.accountForToken(ctx, token)
	if err != nil {
		return nil, err
	}

	account.User = account.User.Apply(patch)
	account.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, account); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, wire.NewFailure("User not found", "User not found")
		}
		return nil, err
	}
	return &account.User, nil
}

// SetActive enables or disables an account. Disabled accounts cannot log
// in and their tokens stop validating.
func (s *Service) SetActive(ctx context.Context, email string, active bool) error {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	account.IsActive = active
	account.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, account)
}

func (s *Service) accountForToken(ctx context.Context, token string) (*Account, error) {
	userID, err := auth.ParseToken(token, auth.KindAccess, s.jwtSecret)
	if err != nil {
		return nil, errInvalidToken
	}

	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, errUserDeactivated
	}
	return account, nil
}

func (s *Service) issue(user models.User) (*models.Session, error) {
	now := s.now()

	access, expiresAt, err := auth.GenerateToken(user.ID, auth.KindAccess, s.jwtSecret, s.accessTokenValidityDuration, now)
	if err != nil {
		return nil, err
	}
	refresh, _, err := auth.GenerateToken(user.ID, auth.KindRefresh, s.jwtSecret, s.refreshTokenValidityDuration, now)
	if err != nil {
		return nil, err
	}

	return &models.Session{
		User: user,
		Tokens: models.Tokens{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    expiresAt.UTC(),
			TokenType:    models.TokenTypeBearer,
		},
	}, nil
}

// delay simulates network latency. It returns early with ctx's error.
func (s *Service) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// loginLimiter throttles login attempts per email.
type loginLimiter struct {
	mu       sync.Mutex
	every    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newLoginLimiter(perMinute, burst int) *loginLimiter {
	if burst < 1 {
		burst = 1
	}
	return &loginLimiter{
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *loginLimiter) allow(email string) bool {
	key := emailKey(email)

	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}
