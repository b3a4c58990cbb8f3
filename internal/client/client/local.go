package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
)

// Directory is the identity logic a LocalClient calls in-process.
// *users.Service from the reference server satisfies it.
type Directory interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, r models.Registration) (*models.Session, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, patch models.UserPatch) (*models.User, error)
}

// LocalClient serves the Client contract from a Directory in the same
// process. Results pass through the wire envelope so failures look exactly
// like those of a remote backend.
type LocalClient struct {
	dir Directory

	mu          sync.Mutex
	accessToken string
}

func NewLocalClient(dir Directory) *LocalClient {
	return &LocalClient{dir: dir}
}

// settle normalizes a directory result the way the wire round trip does.
func settle[T any](data *T, err error, fallback string) (*T, error) {
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if errors.Is(err, context.Canceled) {
		return nil, err
	}
	return wire.From(data, err, fallback).Result(fallback)
}

func (c *LocalClient) setToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

func (c *LocalClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	sess, err := c.dir.Login(ctx, email, password)
	sess, err = settle(sess, err, LoginFailed)
	if err != nil {
		return nil, err
	}
	c.setToken(sess.Tokens.AccessToken)
	return sess, nil
}

func (c *LocalClient) Register(ctx context.Context, r models.Registration) (*models.Session, error) {
	sess, err := c.dir.Register(ctx, r)
	sess, err = settle(sess, err, RegisterFailed)
	if err != nil {
		return nil, err
	}
	c.setToken(sess.Tokens.AccessToken)
	return sess, nil
}

func (c *LocalClient) Logout(ctx context.Context) error {
	c.mu.Lock()
	token := c.accessToken
	c.accessToken = ""
	c.mu.Unlock()

	_, err := settle(&wire.LogoutPayload{Success: true}, c.dir.Logout(ctx, token), LogoutFailed)
	return err
}

func (c *LocalClient) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	user, err := c.dir.ValidateToken(ctx, token)
	return settle(user, err, ValidateFailed)
}

func (c *LocalClient) UpdateProfile(ctx context.Context, token string, patch models.UserPatch) (*models.User, error) {
	user, err := c.dir.UpdateProfile(ctx, token, patch)
	return settle(user, err, UpdateFailed)
}

func (c *LocalClient) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (c *LocalClient) Close() error {
	return nil
}
