// Package observability carries the request correlation identifier
// explicitly through the call chain via the request context, so every
// collaborator (logs, audit rows) can tag its output without ambient
// globals.
package observability

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// NewCorrelationID generates a fresh short identifier.
func NewCorrelationID() string {
	return uuid.NewString()[:16]
}

// WithCorrelationID returns a context carrying cid.
func WithCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, cid)
}

// CorrelationID extracts the identifier, empty when none was set.
func CorrelationID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
