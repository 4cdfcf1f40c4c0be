// Package runctx provides shared context key helpers for propagating the run
// ID across package boundaries. It is intentionally zero-dependency on the
// rest of the module so any package can import it without creating cycles.
package runctx

import (
	"context"

	"github.com/google/uuid"
)

type runIDCtxKey struct{}

// New returns a fresh run ID for correlating log lines of one CLI invocation.
func New() string {
	return uuid.NewString()
}

// WithRunID returns a new context carrying the given run ID.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDCtxKey{}, id)
}

// RunIDFromContext extracts the run ID from the context.
// Returns "" if no run ID is present.
func RunIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(runIDCtxKey{}).(string)
	return v
}
