package wire

import "github.com/dmitrijs2005/sessionkeeper/internal/models"

// ServiceName is the fully-qualified gRPC service of the identity backend.
const ServiceName = "sessionkeeper.identity.v1.Identity"

// Method names of the identity service.
const (
	MethodLogin         = "Login"
	MethodRegister      = "Register"
	MethodLogout        = "Logout"
	MethodValidateToken = "ValidateToken"
	MethodUpdateProfile = "UpdateProfile"
)

// FullMethod returns "/<service>/<method>" as used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

// LogoutRequest carries nothing; the access token, if any, rides in metadata.
type LogoutRequest struct{}

// ValidateTokenRequest carries nothing; the token rides in metadata.
type ValidateTokenRequest struct{}

type UpdateProfileRequest struct {
	Patch models.UserPatch `json:"patch"`
}

type LogoutPayload struct {
	Success bool `json:"success"`
}

type UserPayload struct {
	User models.User `json:"user"`
}

// Response types of each method.
type (
	AuthResponse   = Envelope[models.Session]
	LogoutResponse = Envelope[LogoutPayload]
	UserResponse   = Envelope[UserPayload]
)
