package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"DealDesk"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"dealdesk"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret   string        `envconfig:"AUTH_JWT_SECRET" required:"true"`
		Issuer      string        `envconfig:"AUTH_ISSUER" default:"dealdesk"`
		TokenTTL    time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
		AdminEmails []string      `envconfig:"AUTH_ADMIN_EMAILS"`
		// Requests per minute per client IP on /auth routes.
		RateLimit int64 `envconfig:"AUTH_RATE_LIMIT" default:"20"`
	}

	CDN struct {
		UploadURL    string `envconfig:"CDN_UPLOAD_URL"`
		UploadPreset string `envconfig:"CDN_UPLOAD_PRESET"`
		MaxBytes     int64  `envconfig:"CDN_MAX_BYTES" default:"10485760"`
		MaxRetries   uint64 `envconfig:"CDN_MAX_RETRIES" default:"0"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	TUI struct {
		Token string `envconfig:"DEALDESK_TOKEN"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
