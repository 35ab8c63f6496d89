package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/stashbox/backend/internal/config"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only looks at the first 72 bytes; longer input is rejected.
const bcryptMaxPasswordBytes = 72

// Upper bounds accepted when decoding an argon2id hash. Anything larger is
// treated as malformed rather than computed.
const (
	argon2MaxMemoryKiB   = 256 * 1024
	argon2MaxIterations  = 16
	argon2MaxParallelism = 16
	argon2MaxKeyLength   = 128
)

var ErrPasswordTooLong = errors.New("password is too long")

// PasswordHasher produces salted one-way hashes. Verify returns false for
// wrong passwords and for hashes it cannot decode.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

var (
	_ PasswordHasher = (*BcryptHasher)(nil)
	_ PasswordHasher = (*Argon2Hasher)(nil)
	_ PasswordHasher = (*MultiHasher)(nil)
)

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (b *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > bcryptMaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b *BcryptHasher) Verify(password, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

// Argon2Hasher hashes with argon2id and encodes the result as
// $argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$<salt>$<key>.
type Argon2Hasher struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// NewArgon2Hasher returns the OWASP recommended argon2id parameters.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (a *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, a.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, a.Iterations, a.Memory, a.Parallelism, a.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.Memory,
		a.Iterations,
		a.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (a *Argon2Hasher) Verify(password, encoded string) bool {
	params, salt, key, err := decodeArgon2Hash(encoded)
	if err != nil {
		return false
	}
	computed := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)
	return subtle.ConstantTimeCompare(key, computed) == 1
}

func decodeArgon2Hash(encoded string) (*Argon2Hasher, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, nil, nil, errors.New("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return nil, nil, nil, errors.New("unsupported algorithm")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	var memory, iterations uint32
	var parallelism int
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if memory == 0 || memory > argon2MaxMemoryKiB ||
		iterations == 0 || iterations > argon2MaxIterations ||
		parallelism < 1 || parallelism > argon2MaxParallelism {
		return nil, nil, nil, errors.New("parameters out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return nil, nil, nil, errors.New("invalid salt encoding")
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > argon2MaxKeyLength {
		return nil, nil, nil, errors.New("invalid key encoding")
	}

	return &Argon2Hasher{
		Memory:      memory,
		Iterations:  iterations,
		Parallelism: uint8(parallelism),
		KeyLength:   uint32(len(key)),
	}, salt, key, nil
}

// MultiHasher hashes new passwords with the configured algorithm and
// verifies any supported encoding, so changing PASSWORD_HASHER keeps
// existing accounts usable.
type MultiHasher struct {
	primary PasswordHasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

func NewMultiHasher(primary string, bcryptHasher *BcryptHasher, argon2Hasher *Argon2Hasher) (*MultiHasher, error) {
	m := &MultiHasher{bcrypt: bcryptHasher, argon2: argon2Hasher}
	switch primary {
	case config.HasherBcrypt:
		m.primary = bcryptHasher
	case config.HasherArgon2id:
		m.primary = argon2Hasher
	default:
		return nil, fmt.Errorf("%w: unknown password hasher %q", ErrMisconfigured, primary)
	}
	return m, nil
}

// NewPasswordHasher builds the hasher described by cfg.
func NewPasswordHasher(cfg config.AuthConfig) (*MultiHasher, error) {
	return NewMultiHasher(cfg.PasswordHasher, NewBcryptHasher(cfg.BcryptCost), NewArgon2Hasher())
}

func (m *MultiHasher) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

func (m *MultiHasher) Verify(password, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return m.argon2.Verify(password, encoded)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		return m.bcrypt.Verify(password, encoded)
	default:
		return false
	}
}
