// Package authctx carries the authenticated caller through a request context.
package authctx

import (
	"context"

	"github.com/stashbox/backend/internal/model"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx that carries id.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity. ok is false
// when the context carries none or its user id is empty.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	if ctx == nil {
		return model.Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(model.Identity)
	if !ok || id.UserID == "" {
		return model.Identity{}, false
	}
	return id, true
}
