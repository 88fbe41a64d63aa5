// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int    `env:"PORT" envDefault:"4444"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:7777"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	AppSecret string `env:"APP_SECRET"`
}

// DatabaseConfig holds the GORM connection settings.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL"`
}

// MailConfig holds SMTP settings for outbound mail.
type MailConfig struct {
	Host string `env:"MAIL_HOST"`
	Port int    `env:"MAIL_PORT" envDefault:"587"`
	User string `env:"MAIL_USER"`
	Pass string `env:"MAIL_PASS"`
	From string `env:"MAIL_FROM" envDefault:"threads@example.com"`
}

// PaymentConfig holds payment gateway credentials.
type PaymentConfig struct {
	StripeSecret string `env:"STRIPE_SECRET"`
	Currency     string `env:"CHARGE_CURRENCY" envDefault:"usd"`
}

// Config is the full runtime configuration.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Server   ServerConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Mail     MailConfig
	Payment  PaymentConfig
}

// Load parses configuration from the environment. APP_SECRET and
// DATABASE_URL have no sane defaults and must be set.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.Auth.AppSecret == "" {
		return nil, fmt.Errorf("APP_SECRET is not set")
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return &cfg, nil
}
