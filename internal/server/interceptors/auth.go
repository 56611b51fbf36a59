package interceptors

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"lms-platform/authcore/internal/security"
	sessiondomain "lms-platform/authcore/internal/session/domain"
)

const (
	bearerPrefix = "bearer "

	defaultValidateTimeout = 3 * time.Second
)

// SessionValidator checks a bearer token against live session state.
// (nil, nil) means the token does not authenticate. Satisfied by the session
// manager.
type SessionValidator interface {
	ValidateClient(ctx context.Context, token, ip, userAgent string) (*sessiondomain.Session, error)
}

// AuthUnary returns a unary server interceptor that validates the Bearer
// token from gRPC metadata against the session manager and sets the caller
// identity in context for protected RPCs. publicMethods is the set of full
// method names that do not require a token (e.g. Login, RequestPasswordReset,
// health checks). Session validation runs under timeout so a slow store
// cannot stall the request path; zero means the default.
func AuthUnary(sessions SessionValidator, codec *security.TokenCodec, publicMethods map[string]bool, timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = defaultValidateTimeout
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		token := extractBearer(ctx)
		public := publicMethods[info.FullMethod]

		if token == "" {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		vctx, cancel := context.WithTimeout(ctx, timeout)
		sess, err := sessions.ValidateClient(vctx, token, ClientIP(ctx), ClientUserAgent(ctx))
		cancel()
		if err != nil || sess == nil {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		var role, orgID string
		if codec != nil {
			if claims, err := codec.Verify(token); err == nil {
				role, orgID = claims.Role, claims.OrgID
			}
		}
		ctx = WithIdentity(ctx, sess.UserID, orgID, sess.ID, role)
		return handler(ctx, req)
	}
}

// extractBearer returns the Bearer token from ctx metadata, or "" if missing or malformed.
func extractBearer(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	v := strings.TrimSpace(vals[0])
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
