package auth

import (
	"os"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// Environment variable keys consumed at startup.
const (
	EnvVerificationSecret = "VERIFICATION_SECRET"
	EnvAccessSecret       = "ACCESS_SECRET"
	EnvRefreshSecret      = "REFRESH_SECRET"
	EnvAppPort            = "APP_PORT"
	EnvAppEnv             = "APP_ENV"
	EnvDBDSN              = "DB_DSN"
)

// Config holds the startup configuration for the service. It is built once
// in main and passed by reference; nothing mutates it afterwards.
type Config struct {
	VerificationSecret string
	AccessSecret       string
	RefreshSecret      string
	Port               string
	Env                string
	DSN                string
}

// LoadConfig reads the environment and validates the result. A missing
// signing secret for any token kind fails here so the process never comes
// up unable to serve a token operation.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		VerificationSecret: os.Getenv(EnvVerificationSecret),
		AccessSecret:       os.Getenv(EnvAccessSecret),
		RefreshSecret:      os.Getenv(EnvRefreshSecret),
		Port:               os.Getenv(EnvAppPort),
		Env:                os.Getenv(EnvAppEnv),
		DSN:                os.Getenv(EnvDBDSN),
	}

	if cfg.Port == "" {
		cfg.Port = "9001"
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}

	if cfg.DSN == "" {
		cfg.DSN = "file:auth.db?cache=shared"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the startup-fatal requirements.
func (c Config) Validate() error {
	if c.VerificationSecret == "" {
		return NewMissingSecretError(EnvVerificationSecret)
	}
	if c.AccessSecret == "" {
		return NewMissingSecretError(EnvAccessSecret)
	}
	if c.RefreshSecret == "" {
		return NewMissingSecretError(EnvRefreshSecret)
	}

	err := validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Length(1, 5)),
		validation.Field(&c.Env, validation.Required, validation.In("development", "test", "production")),
		validation.Field(&c.DSN, validation.Required),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid service configuration")
	}

	return nil
}

// IsProduction reports whether error responses should omit stack details.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
