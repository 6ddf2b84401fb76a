package auth

import (
	"context"

	authmodel "github.com/aidejuridic/chatgate/backend/internal/model/auth"
)

type sessionContextKey struct{}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session authmodel.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// FromContext returns the session attached by the route guard, if any.
func FromContext(ctx context.Context) (authmodel.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(authmodel.Session)
	return session, ok
}
