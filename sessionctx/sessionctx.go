// Package sessionctx carries a session.Manager through a context.Context,
// replacing ambient global session state with an explicitly injected value
// that downstream code can reach without plumbing it through every call.
package sessionctx

import (
	"context"

	"github.com/digisolai/digisol.ai-sub000/session"
)

type contextKey struct{}

// NewContext returns a context carrying the session manager.
func NewContext(ctx context.Context, manager *session.Manager) context.Context {
	return context.WithValue(ctx, contextKey{}, manager)
}

// FromContext returns the session manager stored in ctx, if any.
func FromContext(ctx context.Context) (*session.Manager, bool) {
	manager, ok := ctx.Value(contextKey{}).(*session.Manager)
	return manager, ok
}

// MustFromContext returns the session manager stored in ctx and panics when
// none is present. Use it where a missing session is a programming error.
func MustFromContext(ctx context.Context) *session.Manager {
	manager, ok := FromContext(ctx)
	if !ok {
		panic("sessionctx: no session manager in context")
	}
	return manager
}
