// Package config loads server configuration from environment variables.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the server needs at boot.
type Config struct {
	Port        string
	Environment string // "development" or "production"
	LogLevel    string

	DatabaseURL string

	PaystackSecretKey     string
	PaystackBaseURL       string
	PaystackWebhookSecret string

	JWTSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	CORSOrigins []string
}

// Load reads configuration from the environment, applying development
// defaults where a value is optional.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        envOr("PORT", "5000"),
		Environment: envOr("ENV", "development"),
		LogLevel:    envOr("LOG_LEVEL", "INFO"),

		DatabaseURL: envOr("DATABASE_URL",
			"postgres://storefront@localhost:5432/storefront?sslmode=disable"),

		PaystackSecretKey:     os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:       os.Getenv("PAYSTACK_BASE_URL"),
		PaystackWebhookSecret: os.Getenv("PAYSTACK_WEBHOOK_SECRET"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SMTPHost:     envOr("SMTP_HOST", "smtp.gmail.com"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    envOr("EMAIL_FROM", "Abella Stitches <no-reply@abellastitches.com>"),
	}

	smtpPort := envOr("SMTP_PORT", "587")
	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		return nil, errors.New("SMTP_PORT is not a number: " + smtpPort)
	}
	cfg.SMTPPort = port

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			cfg.CORSOrigins = append(cfg.CORSOrigins, strings.TrimSpace(origin))
		}
	}

	if cfg.PaystackSecretKey == "" {
		return nil, errors.New("PAYSTACK_SECRET_KEY is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.PaystackWebhookSecret == "" {
		// Paystack signs webhooks with the account secret key unless a
		// dedicated secret is configured.
		cfg.PaystackWebhookSecret = cfg.PaystackSecretKey
	}

	return cfg, nil
}

// Production reports whether the server runs with production hardening
// (Secure cookies, release-mode router).
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
