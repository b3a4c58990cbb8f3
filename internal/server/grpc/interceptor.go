package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const accessTokenKey ctxKey = "accessToken"

// accessTokenInterceptor lifts the access token out of the request metadata
// into the context. Missing tokens are not rejected here; the identity
// service answers them with "Invalid token".
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			ctx = context.WithValue(ctx, accessTokenKey, values[0])
		}
	}
	return handler(ctx, req)
}

// loggingInterceptor logs every unary call with its duration and status code.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "duration", time.Since(start), "code", code.String()}
	if err != nil {
		s.logger.Warn(ctx, "gRPC call failed", append(args, "error", err)...)
	} else {
		s.logger.Debug(ctx, "gRPC call", args...)
	}
	return resp, err
}

func accessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}
