package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	// Commerce backend GraphQL endpoint and its storefront access token.
	StorefrontAPIURL   string `env:"STOREFRONT_API_URL,required" validate:"required,url"`
	StorefrontAPIToken string `env:"STOREFRONT_API_TOKEN,required" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	// Exchange-rate feed for the display-only currency conversion.
	ExchangeRateURL      string        `env:"EXCHANGE_RATE_URL" validate:"omitempty,url"`
	ExchangeRateInterval time.Duration `env:"EXCHANGE_RATE_INTERVAL" envDefault:"1h"`
	BaseCurrency         string        `env:"BASE_CURRENCY" envDefault:"USD" validate:"required,len=3"`

	CacheProvider         string `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	SessionStoreProvider  string `env:"SESSION_STORE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis,required_if=SessionStoreProvider redis"`

	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	// Key for encrypting customer access tokens before they reach the
	// session store.
	EncryptionKey string `env:"ENCRYPTION_KEY,required" validate:"required,len=32"`

	// Contact form delivery.
	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"log" validate:"omitempty,oneof=log resend"`
	ResendAPIKey  string `env:"RESEND_API_KEY" validate:"required_if=EmailProvider resend"`
	EmailFrom     string `env:"EMAIL_FROM" validate:"required_if=EmailProvider resend,omitempty,email"`
	ContactInbox  string `env:"CONTACT_INBOX" validate:"required_if=EmailProvider resend,omitempty,email"`

	PagesFile string `env:"PAGES_FILE" envDefault:"content/pages.yaml"`

	SentryDSN string `env:"SENTRY_DSN"`
	BaseURL   string `env:"BASE_URL" validate:"omitempty,url"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8080"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	if c.ExchangeRateInterval < time.Minute {
		return fmt.Errorf("EXCHANGE_RATE_INTERVAL must be at least one minute")
	}

	baseURL := strings.TrimSpace(c.BaseURL)
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Hostname() == "" {
			return fmt.Errorf("BASE_URL must be a valid absolute URL")
		}
		if !isLocalHost(parsed.Hostname()) && !strings.EqualFold(parsed.Scheme, "https") {
			return fmt.Errorf("BASE_URL must use https outside local development")
		}
	}

	return nil
}

func isLocalHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
