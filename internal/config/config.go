package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	AppURL string `env:"APP_URL" envDefault:"http://localhost:8080"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ServerPort              string        `env:"SERVER_PORT" envDefault:"8080"`
	ServerReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ServerWriteTimeout      time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ServerIdleTimeout       time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	RequestTimeout          time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	DatabaseURL        string        `env:"DATABASE_URL"`
	DBMaxConns         int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns         int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	SlowQueryThreshold time.Duration `env:"DB_SLOW_QUERY_THRESHOLD" envDefault:"1s"`
	MigrateOnStart     bool          `env:"MIGRATE_ON_START" envDefault:"true"`

	// Empty keeps sessions and rate-limit windows in process memory.
	RedisURL string `env:"REDIS_URL"`

	SessionLifetime       time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`
	SessionRotateInterval time.Duration `env:"SESSION_ROTATE_INTERVAL" envDefault:"30m"`
	SessionSecure         bool          `env:"SESSION_SECURE" envDefault:"false"`
	CSRFTokenExpiry       time.Duration `env:"CSRF_TOKEN_EXPIRY" envDefault:"1h"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"60"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	TokenSecret string `env:"TOKEN_SECRET"`

	UploadRoot    string `env:"UPLOAD_ROOT" envDefault:"./uploads"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"2097152"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:8080"`

	SMTPHost          string  `env:"SMTP_HOST"`
	SMTPPort          int     `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser          string  `env:"SMTP_USER"`
	SMTPPassword      string  `env:"SMTP_PASSWORD"`
	MailFrom          string  `env:"MAIL_FROM" envDefault:"WorkConnect PH <no-reply@workconnect.ph>"`
	MailRatePerSecond float64 `env:"MAIL_RATE_PER_SECOND" envDefault:"2"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if strings.TrimSpace(c.TokenSecret) == "" {
		return fmt.Errorf("TOKEN_SECRET is required")
	}

	if c.IsProduction() && len(c.TokenSecret) < 32 {
		return fmt.Errorf("TOKEN_SECRET must be at least 32 characters in production")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS are inconsistent")
	}

	if c.SessionLifetime <= 0 || c.SessionRotateInterval <= 0 {
		return fmt.Errorf("SESSION_LIFETIME and SESSION_ROTATE_INTERVAL must be positive")
	}

	if c.CSRFTokenExpiry <= 0 {
		return fmt.Errorf("CSRF_TOKEN_EXPIRY must be positive")
	}

	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}

	if strings.TrimSpace(c.UploadRoot) == "" {
		return fmt.Errorf("UPLOAD_ROOT cannot be empty")
	}

	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.AppEnv), "production")
}

// SMTPEnabled reports whether outgoing mail goes to a real relay.
func (c *Config) SMTPEnabled() bool {
	return strings.TrimSpace(c.SMTPHost) != ""
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
