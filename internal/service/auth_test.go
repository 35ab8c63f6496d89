package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stashbox/backend/internal/authctx"
	"github.com/stashbox/backend/internal/db/memory"
	"github.com/stashbox/backend/internal/logging"
	"github.com/stashbox/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T, users UserStore) (*AuthService, *TokenIssuer) {
	t.Helper()
	tokens, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	return NewAuthService(users, NewBcryptHasher(bcrypt.MinCost), tokens, logging.Discard()), tokens
}

type brokenUserStore struct{}

func (brokenUserStore) CreateUser(context.Context, string, string) (*model.User, error) {
	return nil, errors.New("connection reset")
}

func (brokenUserStore) GetUserByEmail(context.Context, string) (*model.User, error) {
	return nil, errors.New("connection reset")
}

func (brokenUserStore) GetUserByID(context.Context, string) (*model.User, error) {
	return nil, errors.New("connection reset")
}

func TestSignupThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newTestAuthService(t, memory.New())

	userID, err := svc.Signup(ctx, "ann@example.com", "pw-ann")
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	res, err := svc.Login(ctx, "ann@example.com", "pw-ann")
	require.NoError(t, err)
	assert.Equal(t, userID, res.User.ID)
	assert.Equal(t, "ann@example.com", res.User.Email)

	claims, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestSignupNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t, memory.New())

	_, err := svc.Signup(ctx, "  Ann@Example.COM ", "pw")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", res.User.Email)

	_, err = svc.Signup(ctx, "ANN@example.com", "other")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSignupDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t, memory.New())

	_, err := svc.Signup(ctx, "a@x.io", "first")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "a@x.io", "second")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Login(ctx, "a@x.io", "first")
	assert.NoError(t, err, "first password keeps working")
	_, err = svc.Login(ctx, "a@x.io", "second")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestAuthService(t, memory.New())

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "pw"},
		{name: "blank email", email: "   ", password: "pw"},
		{name: "empty password", email: "a@x.io", password: ""},
		{name: "password too long", email: "a@x.io", password: string(make([]byte, 100))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLoginUniformFailure(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t, memory.New())

	_, err := svc.Signup(ctx, "a@x.io", "right")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "a@x.io", "wrong")
	_, unknownEmail := svc.Login(ctx, "nobody@x.io", "right")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginValidation(t *testing.T) {
	svc, _ := newTestAuthService(t, memory.New())

	_, err := svc.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Login(context.Background(), "a@x.io", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthStoreFailuresAreInternal(t *testing.T) {
	svc, _ := newTestAuthService(t, brokenUserStore{})
	ctx := authctx.WithIdentity(context.Background(), model.Identity{UserID: "u"})

	_, err := svc.Signup(ctx, "a@x.io", "pw")
	assert.ErrorIs(t, err, ErrInternal)
	_, err = svc.Login(ctx, "a@x.io", "pw")
	assert.ErrorIs(t, err, ErrInternal)
	_, err = svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t, memory.New())

	userID, err := svc.Signup(ctx, "a@x.io", "pw")
	require.NoError(t, err)
	res, err := svc.Login(ctx, "a@x.io", "pw")
	require.NoError(t, err)

	id, err := svc.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)

	_, err = svc.Authenticate("garbage")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t, memory.New())

	_, err := svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	userID, err := svc.Signup(ctx, "a@x.io", "pw")
	require.NoError(t, err)

	me, err := svc.CurrentUser(authctx.WithIdentity(ctx, model.Identity{UserID: userID}))
	require.NoError(t, err)
	assert.Equal(t, model.UserResponse{ID: userID, Email: "a@x.io"}, *me)

	_, err = svc.CurrentUser(authctx.WithIdentity(ctx, model.Identity{UserID: "gone"}))
	assert.ErrorIs(t, err, ErrNotFound)
}
