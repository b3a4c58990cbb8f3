package wire

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestEnvelope_ResultSuccess(t *testing.T) {
	env := OK(UserPayload{User: models.User{ID: "1"}})

	got, err := env.Result("Token validation failed")
	require.NoError(t, err)
	assert.Equal(t, "1", got.User.ID)
}

func TestEnvelope_ResultFailureMessage(t *testing.T) {
	env := Envelope[models.Session]{Message: "Invalid credentials", Errors: []string{"Invalid email or password"}}

	got, err := env.Result("Login failed")
	require.Nil(t, got)

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "Invalid credentials", f.Message)
	assert.Equal(t, []string{"Invalid email or password"}, f.Errors)
}

func TestEnvelope_ResultFallbacks(t *testing.T) {
	_, err := Envelope[models.Session]{}.Result("Login failed")
	assert.EqualError(t, err, "Login failed")

	_, err = Envelope[models.Session]{Success: true}.Result("Login failed")
	assert.EqualError(t, err, "Login failed", "success without data is a failure")
}

func TestFail(t *testing.T) {
	env := Fail[models.Session](NewFailure("Password too weak", "Password must be at least 6 characters long"), "Registration failed")
	assert.False(t, env.Success)
	assert.Equal(t, "Password too weak", env.Message)

	env = Fail[models.Session](errors.New("db down"), "Registration failed")
	assert.Equal(t, "Registration failed", env.Message)
	assert.Equal(t, []string{"An unexpected error occurred"}, env.Errors)
}

func TestFrom(t *testing.T) {
	p := &LogoutPayload{Success: true}
	assert.True(t, From(p, nil, "Logout failed").Success)
	assert.Equal(t, "Logout failed", From[LogoutPayload](nil, nil, "Logout failed").Message)
}

func TestFailure_Error(t *testing.T) {
	assert.Equal(t, "Invalid token", NewFailure("Invalid token").Error())
	assert.Equal(t, "Invalid token: Token is invalid or expired", NewFailure("Invalid token", "Token is invalid or expired").Error())
}

func TestEnvelope_WireShape(t *testing.T) {
	b, err := json.Marshal(Envelope[LogoutPayload]{Message: "Logout failed"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"Logout failed"}`, string(b))
}

func TestCodec_Registered(t *testing.T) {
	require.NotNil(t, encoding.GetCodec(CodecName))

	c := Codec{}
	b, err := c.Marshal(LoginRequest{Email: "a@b.c", Password: "p"})
	require.NoError(t, err)

	var req LoginRequest
	require.NoError(t, c.Unmarshal(b, &req))
	assert.Equal(t, "a@b.c", req.Email)
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/sessionkeeper.identity.v1.Identity/Login", FullMethod(MethodLogin))
}
