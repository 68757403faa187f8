// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets them; services and handlers read
// them without importing net/http.
package requestcontext

import "context"

type (
	userIDKey    struct{}
	requestIDKey struct{}
	deviceKey    struct{}
	tokenIDKey   struct{}
)

// UserID retrieves the authenticated user's public id from the context.
// Empty when the request is unauthenticated.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithUserID injects the authenticated user's public id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// RequestID retrieves the per-request correlation id.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// TokenID retrieves the JTI of the bearer token the request authenticated
// with. Logout revokes this id.
func TokenID(ctx context.Context) string {
	if id, ok := ctx.Value(tokenIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithTokenID injects the bearer token's JTI.
func WithTokenID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, tokenIDKey{}, id)
}

// Device retrieves the client device summary ("Chrome on Linux") parsed from
// the User-Agent header. Empty when the header was absent.
func Device(ctx context.Context) string {
	if d, ok := ctx.Value(deviceKey{}).(string); ok {
		return d
	}
	return ""
}

// WithDevice injects a device summary. Useful for service tests that skip
// the HTTP middleware chain.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, deviceKey{}, device)
}
