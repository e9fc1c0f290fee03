package auth

import (
	"context"

	"github.com/hongminglow/countries-be/internal/models"
)

type contextKey struct{}

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, user models.PublicUser) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the user set by the session middleware.
func UserFromContext(ctx context.Context) (models.PublicUser, bool) {
	user, ok := ctx.Value(contextKey{}).(models.PublicUser)
	return user, ok
}
