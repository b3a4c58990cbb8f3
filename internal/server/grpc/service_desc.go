package grpc

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
	"google.golang.org/grpc"
)

// IdentityServer is the server side of the identity service. Messages are
// carried by the wire JSON codec.
type IdentityServer interface {
	Login(context.Context, *wire.LoginRequest) (*wire.AuthResponse, error)
	Register(context.Context, *wire.RegisterRequest) (*wire.AuthResponse, error)
	Logout(context.Context, *wire.LogoutRequest) (*wire.LogoutResponse, error)
	ValidateToken(context.Context, *wire.ValidateTokenRequest) (*wire.UserResponse, error)
	UpdateProfile(context.Context, *wire.UpdateProfileRequest) (*wire.UserResponse, error)
}

// ServiceDesc describes the identity service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: wire.ServiceName,
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(wire.MethodLogin, IdentityServer.Login),
		unaryMethod(wire.MethodRegister, IdentityServer.Register),
		unaryMethod(wire.MethodLogout, IdentityServer.Logout),
		unaryMethod(wire.MethodValidateToken, IdentityServer.ValidateToken),
		unaryMethod(wire.MethodUpdateProfile, IdentityServer.UpdateProfile),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sessionkeeper/identity.json",
}

// unaryMethod builds the method descriptor that decodes Req, runs the
// interceptor chain and dispatches to call.
func unaryMethod[Req, Resp any](name string, call func(IdentityServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(IdentityServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: wire.FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(IdentityServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
