package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// MinSecretLength is the shortest accepted signing secret, in bytes.
const MinSecretLength = 32

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Token      TokenConfig
	Security   SecurityConfig
	SuperAdmin SuperAdminConfig
	RateLimit  RateLimitConfig
	HTTP       HTTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI,      default=mongodb://localhost:27017"`
	Database string `env:"MONGODB_DATABASE, default=senado_bolivia"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Enabled  bool   `env:"REDIS_ENABLED,  default=true"`
}

type TokenConfig struct {
	Secret        string        `env:"JWT_SECRET"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTTL     time.Duration `env:"JWT_EXPIRES_IN,         default=15m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_EXPIRES_IN, default=720h"`
	Issuer        string        `env:"JWT_ISSUER,             default=senado-api"`
	Audience      string        `env:"JWT_AUDIENCE,           default=senado-client"`
}

type SecurityConfig struct {
	BcryptCost          int           `env:"BCRYPT_COST,           default=12"`
	MaxLoginAttempts    int           `env:"MAX_LOGIN_ATTEMPTS,    default=5"`
	LockDuration        time.Duration `env:"LOCK_DURATION,         default=30m"`
	PasswordHistorySize int           `env:"PASSWORD_HISTORY_SIZE, default=5"`
	PasswordMaxAge      time.Duration `env:"PASSWORD_MAX_AGE,      default=2160h"`
	RequireActivation   bool          `env:"REGISTRATION_REQUIRES_ACTIVATION, default=false"`
}

type SuperAdminConfig struct {
	Email    string `env:"SUPER_ADMIN_EMAIL, default=admin@senado.bo"`
	Password string `env:"SUPER_ADMIN_PASSWORD"`
}

type RateLimitConfig struct {
	Window  time.Duration `env:"RATE_LIMIT_WINDOW,   default=15m"`
	Max     int           `env:"RATE_LIMIT_MAX,      default=100"`
	AuthMax int           `env:"AUTH_RATE_LIMIT_MAX, default=10"`
}

type HTTPConfig struct {
	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:3000"`
	BodyLimit   string   `env:"BODY_LIMIT,   default=10M"`
	UploadDir   string   `env:"UPLOAD_DIR,   default=uploads"`
}

// IsDevelopment reports whether internal error detail may be exposed.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration through the given lookuper and validates it.
// A nil lookuper reads the process environment.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server must not boot with.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Token.Secret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength))
	}
	if len(c.Token.RefreshSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_REFRESH_SECRET must be at least %d bytes", MinSecretLength))
	}
	if c.Token.Secret != "" && c.Token.Secret == c.Token.RefreshSecret {
		errs = append(errs, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	if c.Token.AccessTTL <= 0 || c.Token.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.Security.BcryptCost < 10 || c.Security.BcryptCost > 31 {
		errs = append(errs, errors.New("BCRYPT_COST must be between 10 and 31"))
	}
	if c.Security.MaxLoginAttempts <= 0 || c.Security.LockDuration <= 0 {
		errs = append(errs, errors.New("lockout policy must be positive"))
	}
	if c.RateLimit.Window <= 0 || c.RateLimit.Max <= 0 || c.RateLimit.AuthMax <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
