package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. Local development only.
const DefaultJWTSecret = "dev-insecure-secret-change-me"

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"

	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Metadata MetadataConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

type AuthConfig struct {
	JWTSecret      string        `env:"JWT_SECRET"`
	TokenTTL       time.Duration `env:"JWT_TTL" envDefault:"168h"`
	PasswordHasher string        `env:"PASSWORD_HASHER" envDefault:"bcrypt"`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"10"`

	defaultSecret bool
}

// UsingDefaultSecret reports whether the signing key fell back to
// DefaultJWTSecret because JWT_SECRET was not provided.
func (c AuthConfig) UsingDefaultSecret() bool {
	return c.defaultSecret
}

type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
}

type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND" envDefault:"postgres"`
}

type PostgresConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
	Host        string `env:"PGHOST" envDefault:"localhost"`
	Port        string `env:"PGPORT" envDefault:"5432"`
	User        string `env:"PGUSER"`
	Password    string `env:"PGPASSWORD"`
	Database    string `env:"PGDATABASE"`
	SSLMode     string `env:"PGSSLMODE" envDefault:"disable"`
	MaxConns    int32  `env:"PG_MAX_CONNS" envDefault:"10"`
}

type MetadataConfig struct {
	Enabled   bool          `env:"METADATA_FETCH_ENABLED" envDefault:"true"`
	Timeout   time.Duration `env:"METADATA_FETCH_TIMEOUT" envDefault:"5s"`
	MaxBytes  int64         `env:"METADATA_FETCH_MAX_BYTES" envDefault:"2097152"`
	UserAgent string        `env:"METADATA_USER_AGENT" envDefault:"stashbox-metadata/1.0"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		cfg.Auth.JWTSecret = DefaultJWTSecret
		cfg.Auth.defaultSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	switch c.Auth.PasswordHasher {
	case HasherBcrypt, HasherArgon2id:
	default:
		errs = append(errs, fmt.Errorf("PASSWORD_HASHER %q is not supported", c.Auth.PasswordHasher))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range [4,31]", c.Auth.BcryptCost))
	}
	switch c.Storage.Backend {
	case StorageBackendPostgres, StorageBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND %q is not supported", c.Storage.Backend))
	}
	if c.Metadata.Enabled && c.Metadata.Timeout <= 0 {
		errs = append(errs, errors.New("METADATA_FETCH_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// DSN returns DATABASE_URL when set, otherwise a URL assembled from the
// libpq-style PG* variables.
func (p PostgresConfig) DSN() (string, error) {
	if p.DatabaseURL != "" {
		return p.DatabaseURL, nil
	}
	if p.User == "" || p.Database == "" {
		return "", errors.New("missing required env: DATABASE_URL or PGUSER/PGDATABASE")
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   p.Database,
	}
	if p.Password == "" {
		u.User = url.User(p.User)
	} else {
		u.User = url.UserPassword(p.User, p.Password)
	}
	q := u.Query()
	q.Set("sslmode", p.SSLMode)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
