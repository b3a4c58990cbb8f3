package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
	"google.golang.org/grpc/status"
)

// Fallback messages for failures that carry no backend message.
const (
	loginFailed    = "Login failed"
	registerFailed = "Registration failed"
	logoutFailed   = "Logout failed"
	validateFailed = "Token validation failed"
	updateFailed   = "Profile update failed"
)

func (s *GRPCServer) Login(ctx context.Context, req *wire.LoginRequest) (*wire.AuthResponse, error) {
	sess, err := s.users.Login(ctx, req.Email, req.Password)
	if terr := s.transportError(ctx, err); terr != nil {
		return nil, terr
	}
	if err != nil {
		s.logger.Info(ctx, "Login rejected", "email", req.Email, "reason", err.Error())
	}
	resp := wire.From(sess, err, loginFailed)
	return &resp, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *wire.RegisterRequest) (*wire.AuthResponse, error) {
	sess, err := s.users.Register(ctx, models.Registration{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	})
	if terr := s.transportError(ctx, err); terr != nil {
		return nil, terr
	}
	if err == nil {
		s.logger.Info(ctx, "Registered", "user_id", sess.User.ID)
	}
	resp := wire.From(sess, err, registerFailed)
	return &resp, nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *wire.LogoutRequest) (*wire.LogoutResponse, error) {
	err := s.users.Logout(ctx, accessTokenFromContext(ctx))
	if terr := s.transportError(ctx, err); terr != nil {
		return nil, terr
	}
	resp := wire.From(&wire.LogoutPayload{Success: true}, err, logoutFailed)
	return &resp, nil
}

func (s *GRPCServer) ValidateToken(ctx context.Context, _ *wire.ValidateTokenRequest) (*wire.UserResponse, error) {
	user, err := s.users.ValidateToken(ctx, accessTokenFromContext(ctx))
	if terr := s.transportError(ctx, err); terr != nil {
		return nil, terr
	}
	resp := wire.From(userPayload(user), err, validateFailed)
	return &resp, nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *wire.UpdateProfileRequest) (*wire.UserResponse, error) {
	user, err := s.users.UpdateProfile(ctx, accessTokenFromContext(ctx), req.Patch)
	if terr := s.transportError(ctx, err); terr != nil {
		return nil, terr
	}
	resp := wire.From(userPayload(user), err, updateFailed)
	return &resp, nil
}

func userPayload(u *models.User) *wire.UserPayload {
	if u == nil {
		return nil
	}
	return &wire.UserPayload{User: *u}
}

// transportError turns cancellation and deadlines into gRPC status errors.
// Any other error is reported inside the response envelope and yields nil.
func (s *GRPCServer) transportError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	var f *wire.Failure
	if !errors.As(err, &f) {
		s.logger.Error(ctx, "identity call failed", "error", err)
	}
	return nil
}
