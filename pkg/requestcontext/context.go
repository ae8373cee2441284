// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services and stores read them. Keeping the
// package free of net/http lets non-HTTP callers (workers, tests, CLI)
// inject the same values.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	authorityIDKey struct{}
	clientIPKey    struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyAuthorityID = authorityIDKey{}
	ContextKeyClientIP    = clientIPKey{}
)

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// AuthorityID retrieves the authenticated authority (security staff)
// identifier from the context. Empty when the request is unauthenticated.
func AuthorityID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyAuthorityID).(string); ok {
		return id
	}
	return ""
}

// WithAuthorityID injects an authenticated authority identifier.
func WithAuthorityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyAuthorityID, id)
}

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// WithClientIP injects a client IP address into the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ContextKeyClientIP, ip)
}

// Now retrieves the request-scoped time from context. All operations within
// a single request observe the same "now", which keeps audit timestamps and
// decision timestamps consistent. Falls back to time.Now() for non-HTTP
// contexts (workers, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
