// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// NegotiationKey is the context key for the negotiation ID.
type NegotiationKey struct{}

// RequestKey is the context key for the HTTP request ID.
type RequestKey struct{}

// WithNegotiationID returns a context carrying the negotiation ID.
func WithNegotiationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, NegotiationKey{}, id)
}

// NegotiationFromContext returns the negotiation ID, or empty string if not set.
func NegotiationFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(NegotiationKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID returns a context carrying the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestKey{}, id)
}

// RequestFromContext returns the request ID, or empty string if not set.
func RequestFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RequestKey{}).(string); ok {
		return v
	}
	return ""
}
