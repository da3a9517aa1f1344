// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; handlers read them once and copy them into an
// explicit request value before calling services. Keeping this package free of
// net/http lets services and stores import it for request ids and request time.
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithRequestedBy(ctx, userID)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "coursebatch/pkg/domain"
)

type (
	requestedByKey  struct{}
	requestedForKey struct{}
	clientIPKey     struct{}
	requestIDKey    struct{}
	requestTimeKey  struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyRequestedBy  = requestedByKey{}
	ContextKeyRequestedFor = requestedForKey{}
	ContextKeyClientIP     = clientIPKey{}
	ContextKeyRequestID    = requestIDKey{}
	ContextKeyRequestTime  = requestTimeKey{}
)

// -----------------------------------------------------------------------------
// Identity (caller and target)
// -----------------------------------------------------------------------------

// RequestedBy returns the authenticated caller, or "" when unauthenticated.
func RequestedBy(ctx context.Context) id.UserID {
	if v, ok := ctx.Value(ContextKeyRequestedBy).(id.UserID); ok {
		return v
	}
	return ""
}

// WithRequestedBy injects the authenticated caller.
func WithRequestedBy(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, ContextKeyRequestedBy, userID)
}

// RequestedFor returns the user the caller acts on behalf of (e.g. a parent
// managing a child profile), or "" when the caller acts for itself.
func RequestedFor(ctx context.Context) id.UserID {
	if v, ok := ctx.Value(ContextKeyRequestedFor).(id.UserID); ok {
		return v
	}
	return ""
}

// WithRequestedFor injects the delegated target user.
func WithRequestedFor(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, ContextKeyRequestedFor, userID)
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// WithClientIP injects the client IP address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ContextKeyClientIP, ip)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (reconciler runs, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// -----------------------------------------------------------------------------
// API version
// -----------------------------------------------------------------------------

type apiVersionKey struct{}

// ContextKeyAPIVersion is the key under which the route version is stored.
var ContextKeyAPIVersion = apiVersionKey{}

// APIVersion returns the route's API version, or the default when unset.
func APIVersion(ctx context.Context) id.APIVersion {
	if v, ok := ctx.Value(ContextKeyAPIVersion).(id.APIVersion); ok {
		return v
	}
	return id.DefaultVersion()
}

// WithAPIVersion injects the route's API version.
func WithAPIVersion(ctx context.Context, v id.APIVersion) context.Context {
	return context.WithValue(ctx, ContextKeyAPIVersion, v)
}
