package server

import (
	"context"
	"crypto/subtle"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"golang.org/x/time/rate"

	"github.com/go-tangra/go-tangra-advisor/internal/logging"
)

// APIKeyMiddleware validates the X-API-Key header. An empty secret disables
// authentication. Swagger UI and /metrics are registered outside the
// middleware chain and stay open.
func APIKeyMiddleware(secret string) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req any) (any, error) {
			if secret == "" {
				return handler(ctx, req)
			}

			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return nil, kerrors.InternalServer("NO_TRANSPORT", "no transport in context")
			}

			key := tr.RequestHeader().Get("X-API-Key")
			if key == "" {
				return nil, kerrors.Unauthorized("UNAUTHORIZED", "missing X-API-Key header")
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				return nil, kerrors.Unauthorized("UNAUTHORIZED", "invalid X-API-Key")
			}

			return handler(ctx, req)
		}
	}
}

// RateLimitMiddleware rejects calls to the given operations once limiter is
// exhausted. A nil limiter disables limiting.
func RateLimitMiddleware(limiter *rate.Limiter, operations ...string) middleware.Middleware {
	limited := make(map[string]bool, len(operations))
	for _, op := range operations {
		limited[op] = true
	}
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req any) (any, error) {
			if limiter == nil {
				return handler(ctx, req)
			}
			tr, ok := transport.FromServerContext(ctx)
			if !ok || !limited[tr.Operation()] {
				return handler(ctx, req)
			}
			if !limiter.Allow() {
				logging.For("server").WithField("operation", tr.Operation()).Warn("rate limit exceeded")
				return nil, kerrors.New(429, "RATE_LIMIT_EXCEEDED", "too many scan requests, retry later")
			}
			return handler(ctx, req)
		}
	}
}
