package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/stashbox/backend/internal/authctx"
	"github.com/stashbox/backend/internal/db"
	"github.com/stashbox/backend/internal/logging"
	"github.com/stashbox/backend/internal/model"
)

// UserStore persists credentials. Lookups that find nothing return
// db.ErrNotFound; a second user with the same email returns db.ErrDuplicate.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

type LoginResult struct {
	Token string
	User  model.UserResponse
}

type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens *TokenIssuer
	log    logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens *TokenIssuer, log logging.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log.With("component", "auth"),
	}
}

// Signup creates an account and returns its id. It never issues a token;
// the caller has to log in afterwards.
func (s *AuthService) Signup(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return "", ErrConflict
	case !errors.Is(err, db.ErrNotFound):
		s.log.Error(ctx, "signup: lookup user failed", "error", err)
		return "", ErrInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: %v", ErrValidation, err)
		}
		s.log.Error(ctx, "signup: hash password failed", "error", err)
		return "", ErrInternal
	}

	user, err := s.users.CreateUser(ctx, email, hash)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return "", ErrConflict
		}
		s.log.Error(ctx, "signup: create user failed", "error", err)
		return "", ErrInternal
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID)
	return user.ID, nil
}

// Login verifies the credentials and issues a session token. Unknown email
// and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// Unknown emails still pay for one hash verification.
			s.hasher.Verify(password, s.timingHash())
			return nil, ErrInvalidCredentials
		}
		s.log.Error(ctx, "login: lookup user failed", "error", err)
		return nil, ErrInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, 0)
	if err != nil {
		s.log.Error(ctx, "login: issue token failed", "user_id", user.ID, "error", err)
		return nil, ErrInternal
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{
		Token: token,
		User:  model.UserResponse{ID: user.ID, Email: user.Email},
	}, nil
}

// Authenticate turns a bearer token into the caller identity. Every
// rejection wraps ErrForbidden together with the specific token error.
func (s *AuthService) Authenticate(token string) (model.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	return model.Identity{UserID: claims.UserID}, nil
}

// CurrentUser returns the account behind the identity in ctx.
func (s *AuthService) CurrentUser(ctx context.Context) (*model.UserResponse, error) {
	id, ok := authctx.IdentityFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUserByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		s.log.Error(ctx, "me: lookup user failed", "user_id", id.UserID, "error", err)
		return nil, ErrInternal
	}
	return &model.UserResponse{ID: user.ID, Email: user.Email}, nil
}

func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("timing-equalizer")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
