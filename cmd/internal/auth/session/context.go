package session

import (
	"context"

	"callboard/cmd/identity"
)

type ctxKey struct{}

// WithUser returns a context carrying the authenticated user.
// The middleware attaches at most one user per request; it is never mutated
// afterward.
func WithUser(ctx context.Context, u identity.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the authenticated user attached to ctx, if any.
func UserFrom(ctx context.Context) (identity.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(identity.User)
	return u, ok
}
