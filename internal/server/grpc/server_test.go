package grpc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeDirectory struct {
	session  *models.Session
	user     *models.User
	err      error
	gotToken string
	gotPatch models.UserPatch
	gotReg   models.Registration
}

func (f *fakeDirectory) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return f.session, f.err
}

func (f *fakeDirectory) Register(ctx context.Context, r models.Registration) (*models.Session, error) {
	f.gotReg = r
	return f.session, f.err
}

func (f *fakeDirectory) Logout(ctx context.Context, token string) error {
	f.gotToken = token
	return f.err
}

func (f *fakeDirectory) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	f.gotToken = token
	return f.user, f.err
}

func (f *fakeDirectory) UpdateProfile(ctx context.Context, token string, patch models.UserPatch) (*models.User, error) {
	f.gotToken = token
	f.gotPatch = patch
	return f.user, f.err
}

func startBufServer(t *testing.T, dir Directory) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := NewGRPCServer("bufnet", logging.NewDiscardLogger(), dir)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cc.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return cc
}

func invoke(ctx context.Context, cc *grpc.ClientConn, method string, req, reply any) error {
	return cc.Invoke(ctx, wire.FullMethod(method), req, reply, grpc.CallContentSubtype(wire.CodecName))
}

func TestServer_LoginSuccess(t *testing.T) {
	sess := &models.Session{
		User:   models.User{ID: "1", Email: "a@example.com"},
		Tokens: models.Tokens{AccessToken: "A", TokenType: models.TokenTypeBearer},
	}
	cc := startBufServer(t, &fakeDirectory{session: sess})

	var resp wire.AuthResponse
	require.NoError(t, invoke(context.Background(), cc, wire.MethodLogin, &wire.LoginRequest{Email: "a@example.com", Password: "p"}, &resp))

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "A", resp.Data.Tokens.AccessToken)
	assert.Equal(t, "1", resp.Data.User.ID)
}

func TestServer_FailureTravelsInEnvelope(t *testing.T) {
	cc := startBufServer(t, &fakeDirectory{err: wire.NewFailure("Invalid credentials", "Invalid email or password")})

	var resp wire.AuthResponse
	require.NoError(t, invoke(context.Background(), cc, wire.MethodLogin, &wire.LoginRequest{}, &resp))

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "Invalid credentials", resp.Message)
	assert.Equal(t, []string{"Invalid email or password"}, resp.Errors)
}

func TestServer_UnexpectedErrorUsesFallback(t *testing.T) {
	cc := startBufServer(t, &fakeDirectory{err: errors.New("db down")})

	var resp wire.AuthResponse
	require.NoError(t, invoke(context.Background(), cc, wire.MethodRegister, &wire.RegisterRequest{}, &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Registration failed", resp.Message)
}

func TestServer_ContextErrorsBecomeStatus(t *testing.T) {
	cc := startBufServer(t, &fakeDirectory{err: context.DeadlineExceeded})

	var resp wire.UserResponse
	err := invoke(context.Background(), cc, wire.MethodValidateToken, &wire.ValidateTokenRequest{}, &resp)
	require.Error(t, err)
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
}

func TestServer_AccessTokenFromMetadata(t *testing.T) {
	dir := &fakeDirectory{user: &models.User{ID: "7", FirstName: "New"}}
	cc := startBufServer(t, dir)

	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "tok-7")

	name := "New"
	var resp wire.UserResponse
	require.NoError(t, invoke(ctx, cc, wire.MethodUpdateProfile, &wire.UpdateProfileRequest{Patch: models.UserPatch{FirstName: &name}}, &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "7", resp.Data.User.ID)
	assert.Equal(t, "tok-7", dir.gotToken)
	require.NotNil(t, dir.gotPatch.FirstName)
	assert.Equal(t, "New", *dir.gotPatch.FirstName)
}

func TestServer_LogoutWithoutToken(t *testing.T) {
	dir := &fakeDirectory{}
	cc := startBufServer(t, dir)

	var resp wire.LogoutResponse
	require.NoError(t, invoke(context.Background(), cc, wire.MethodLogout, &wire.LogoutRequest{}, &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Success)
	assert.Empty(t, dir.gotToken)
}

func TestServer_Health(t *testing.T) {
	cc := startBufServer(t, &fakeDirectory{})

	resp, err := healthpb.NewHealthClient(cc).Check(context.Background(), &healthpb.HealthCheckRequest{Service: wire.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.NewDiscardLogger(), &fakeDirectory{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.NewDiscardLogger(), &fakeDirectory{})
	assert.Error(t, srv.Run(context.Background()))
}

func TestServe_ReturnsListenerErrorAndStops(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, lis.Close())

	var logs bytes.Buffer
	srv := NewGRPCServer("", logging.NewTextLogger(&logs, slog.LevelInfo), &fakeDirectory{})

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(context.Background(), lis)
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
		assert.Contains(t, logs.String(), "Stopping gRPC server", "shutdown ran before returning")
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after the listener failed")
	}
}
