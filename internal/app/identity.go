package app

import (
	"context"

	"vidtube/internal/model"
)

type identityKey struct{}

// WithIdentity attaches the authenticated user, loaded without secrets.
func WithIdentity(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

func IdentityFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(identityKey{}).(*model.User)
	return user, ok && user != nil
}
