// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"
)

// Config is the root configuration. It is built once at startup and handed to
// constructors; nothing reads the environment after Load returns.
type Config struct {
	Env           string   `env:"APP_ENV" env-default:"development"`
	Port          int      `env:"PORT" env-default:"5000"`
	AllowOrigins  []string `env:"ALLOW_ORIGIN" env-separator:"," env-default:"http://localhost:3000"`
	PublicBaseURL string   `env:"PUBLIC_BASE_URL" env-default:"http://localhost:5000"`
	AuthLogFile   string   `env:"AUTH_LOG_FILE"`

	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Policy    PolicyConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Storage   StorageConfig
	NATS      NATSConfig
}

// DatabaseConfig holds the parameters for connecting to PostgreSQL.
type DatabaseConfig struct {
	Host         string `env:"DB_HOST"`
	Port         string `env:"DB_PORT" env-default:"5432"`
	User         string `env:"DB_USERNAME"`
	Password     string `env:"DB_PASSWORD"`
	DBName       string `env:"DB_DATABASE"`
	UseConnStr   bool   `env:"USE_CONNECTION_STR" env-default:"false"`
	ConnStr      string `env:"DB_CONNECTION_STR"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
}

// DSN returns the connection string described by the config.
func (d DatabaseConfig) DSN() (string, error) {
	if d.UseConnStr {
		if d.ConnStr == "" {
			return "", fmt.Errorf("DB_CONNECTION_STR is empty")
		}
		return d.ConnStr, nil
	}
	if d.Host == "" || d.Port == "" || d.User == "" || d.Password == "" || d.DBName == "" {
		return "", fmt.Errorf("database configuration is incomplete")
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String(), nil
}

type JWTConfig struct {
	Secret string         `env:"JWT_SECRET" env-required:"true"`
	Expire ExpireDuration `env:"JWT_EXPIRE" env-default:"7d"`
	Issuer string         `env:"JWT_ISSUER" env-default:"campus-portal"`
}

// AdminConfig seeds the first admin account when both email and password are set.
type AdminConfig struct {
	Name     string `env:"ADMIN_NAME" env-default:"Administrator"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

type PolicyConfig struct {
	AllowAdminRegistration bool  `env:"ALLOW_ADMIN_REGISTRATION" env-default:"false"`
	RequireVerifiedCompany bool  `env:"REQUIRE_VERIFIED_COMPANY" env-default:"false"`
	MaxUploadBytes         int64 `env:"MAX_UPLOAD_BYTES" env-default:"5242880"`
}

type RateLimitConfig struct {
	Max    uint          `env:"RATE_LIMIT_MAX" env-default:"100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"10m"`
}

// RedisConfig enables the shared rate-limit store when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// StorageConfig selects Google Cloud Storage when Bucket is set, the files table otherwise.
type StorageConfig struct {
	Bucket          string `env:"GCS_BUCKET"`
	CredentialsFile string `env:"GCS_CREDENTIALS_FILE"`
	PublicBaseURL   string `env:"GCS_PUBLIC_BASE_URL"`
}

type NATSConfig struct {
	URL         string        `env:"NATS_URL"`
	ConnTimeout time.Duration `env:"NATS_CONN_TIMEOUT" env-default:"5s"`
}

// ExpireDuration is a time.Duration that also accepts a day suffix ("7d").
type ExpireDuration time.Duration

// SetValue implements cleanenv.Setter.
func (e *ExpireDuration) SetValue(s string) error {
	d, err := ParseExpire(s)
	if err != nil {
		return err
	}
	*e = ExpireDuration(d)
	return nil
}

// Duration returns the value as a time.Duration.
func (e ExpireDuration) Duration() time.Duration { return time.Duration(e) }

// ParseExpire parses Go durations ("12h") and whole days ("7d").
func ParseExpire(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", s)
	}
	return d, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return &cfg, nil
}
