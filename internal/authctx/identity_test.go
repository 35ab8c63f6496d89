package authctx

import (
	"context"
	"testing"

	"github.com/stashbox/backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), model.Identity{UserID: "user-42"})

	got, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-42", got.UserID)
}

func TestIdentityMissing(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestIdentityEmptyUserID(t *testing.T) {
	ctx := WithIdentity(context.Background(), model.Identity{})
	_, ok := IdentityFromContext(ctx)
	assert.False(t, ok)
}

func TestIdentityNilContext(t *testing.T) {
	ctx := WithIdentity(nil, model.Identity{UserID: "user-99"})

	got, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-99", got.UserID)

	_, ok = IdentityFromContext(nil)
	assert.False(t, ok)
}

func TestIdentityIsolatedPerContext(t *testing.T) {
	base := context.Background()
	a := WithIdentity(base, model.Identity{UserID: "a"})
	b := WithIdentity(base, model.Identity{UserID: "b"})

	idA, _ := IdentityFromContext(a)
	idB, _ := IdentityFromContext(b)
	assert.Equal(t, "a", idA.UserID)
	assert.Equal(t, "b", idB.UserID)

	_, ok := IdentityFromContext(base)
	assert.False(t, ok)
}
