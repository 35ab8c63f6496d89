package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-signing-secret")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer, err := NewTokenIssuer(testSecret, time.Hour, WithClock(fixedClock(now)))
	require.NoError(t, err)

	token, err := issuer.Issue("user-1", 0)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.IssuedAt.Equal(now))
	assert.True(t, claims.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestTokenExplicitTTL(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	issuer, err := NewTokenIssuer(testSecret, time.Hour, WithClock(fixedClock(now)))
	require.NoError(t, err)

	token, err := issuer.Issue("user-1", 5*time.Minute)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Equal(now.Add(5*time.Minute)))
}

func TestNewTokenIssuer(t *testing.T) {
	_, err := NewTokenIssuer(nil, time.Hour)
	assert.ErrorIs(t, err, ErrMisconfigured)

	issuer, err := NewTokenIssuer(testSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, issuer.TTL())
}

func TestIssueRequiresSubject(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	_, err = issuer.Issue("", 0)
	assert.Error(t, err)
}

func TestVerifyExpired(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := issued
	issuer, err := NewTokenIssuer(testSecret, time.Hour, WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	token, err := issuer.Issue("user-1", 0)
	require.NoError(t, err)

	clock = issued.Add(59 * time.Minute)
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	clock = issued.Add(2 * time.Hour)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongKey(t *testing.T) {
	a, err := NewTokenIssuer([]byte("key-a"), time.Hour)
	require.NoError(t, err)
	b, err := NewTokenIssuer([]byte("key-b"), time.Hour)
	require.NoError(t, err)

	token, err := a.Issue("user-1", 0)
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyExpiredAndWrongKeyReportsSignature(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	a, err := NewTokenIssuer([]byte("key-a"), time.Hour, WithClock(fixedClock(past)))
	require.NoError(t, err)
	b, err := NewTokenIssuer([]byte("key-b"), time.Hour)
	require.NoError(t, err)

	token, err := a.Issue("user-1", 0)
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyTamperedPayload(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("user-1", 0)
	require.NoError(t, err)
	other, err := issuer.Issue("user-2", 0)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = issuer.Verify(forged)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyMalformed(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	for _, token := range []string{"", "abc", "a.b", "a.b.c", "....."} {
		_, err := issuer.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, token)
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	claims := sessionClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Verify(none)
	assert.ErrorIs(t, err, ErrTokenSignature)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)
	_, err = issuer.Verify(hs512)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyRequiresExpiry(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{UserID: "user-1"}).SignedString(testSecret)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
