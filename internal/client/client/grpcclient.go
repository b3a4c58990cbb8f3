package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	health      healthpb.HealthClient

	mu          sync.Mutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the last issued access token unless the
// caller already put one into the outgoing metadata.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	md, _ := metadata.FromOutgoingContext(ctx)
	if len(md.Get(common.AccessTokenHeaderName)) == 0 {
		if token := s.token(); token != "" {
			ctx = withAccessToken(ctx, token)
		}
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient creates a client for endpointURL. timeout bounds every call
// (0 means no bound). Extra dial options are appended to the defaults.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.health = healthpb.NewHealthClient(conn)
	return c, nil
}

func (s *GRPCClient) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) invoke(ctx context.Context, method string, req, reply any) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	err := s.conn.Invoke(ctx, wire.FullMethod(method), req, reply, grpc.CallContentSubtype(wire.CodecName))
	return s.mapError(err)
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	req := &wire.LoginRequest{Email: email, Password: password}

	var resp wire.AuthResponse
	if err := s.invoke(ctx, wire.MethodLogin, req, &resp); err != nil {
		return nil, err
	}

	sess, err := resp.Result(LoginFailed)
	if err != nil {
		return nil, err
	}
	s.setToken(sess.Tokens.AccessToken)
	return sess, nil
}

func (s *GRPCClient) Register(ctx context.Context, r models.Registration) (*models.Session, error) {
	req := &wire.RegisterRequest{
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
	}

	var resp wire.AuthResponse
	if err := s.invoke(ctx, wire.MethodRegister, req, &resp); err != nil {
		return nil, err
	}

	sess, err := resp.Result(RegisterFailed)
	if err != nil {
		return nil, err
	}
	s.setToken(sess.Tokens.AccessToken)
	return sess, nil
}

func (s *GRPCClient) Logout(ctx context.Context) error {
	defer s.setToken("")

	var resp wire.LogoutResponse
	if err := s.invoke(ctx, wire.MethodLogout, &wire.LogoutRequest{}, &resp); err != nil {
		return err
	}
	_, err := resp.Result(LogoutFailed)
	return err
}

func (s *GRPCClient) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	var resp wire.UserResponse
	if err := s.invoke(withAccessToken(ctx, token), wire.MethodValidateToken, &wire.ValidateTokenRequest{}, &resp); err != nil {
		return nil, err
	}

	payload, err := resp.Result(ValidateFailed)
	if err != nil {
		return nil, err
	}
	return &payload.User, nil
}

func (s *GRPCClient) UpdateProfile(ctx context.Context, token string, patch models.UserPatch) (*models.User, error) {
	var resp wire.UserResponse
	if err := s.invoke(withAccessToken(ctx, token), wire.MethodUpdateProfile, &wire.UpdateProfileRequest{Patch: patch}, &resp); err != nil {
		return nil, err
	}

	payload, err := resp.Result(UpdateFailed)
	if err != nil {
		return nil, err
	}
	return &payload.User, nil
}

// Ping asks the standard health service whether the identity service is
// serving.
func (s *GRPCClient) Ping(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: wire.ServiceName})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
