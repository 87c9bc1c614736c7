// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, TokenService, Codec)
    via constructors; business logic never reads ambient environment state.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"encoding/hex"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Tabletop Tracker API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) for login attempt throttling
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic secrets. Access and refresh tokens are signed with
	// separate secrets; the encryption key protects email addresses at rest.
	JWTSecret          string `env:"JWT_SECRET,required"`
	JWTRefreshSecret   string `env:"JWT_REFRESH_SECRET,required"`
	EmailEncryptionKey string `env:"EMAIL_ENCRYPTION_KEY,required"` // 32 bytes, hex-encoded

	// BaseURL is the public backend URL embedded in verification links.
	BaseURL string `env:"BASE_URL,required"`

	// FrontendURL is the SPA origin, used for CORS and post-verification redirects.
	FrontendURL string `env:"FRONTEND_URL,required"`

	// Outbound mail (verification links)
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"     envDefault:"noreply@tabletop-tracker.com"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// DecodedEncryptionKey decodes the hex-encoded EMAIL_ENCRYPTION_KEY.
//
// Length validation happens in sec.NewCodec; this only rejects non-hex input
// so misconfiguration fails at startup with a readable message.
func (c *Config) DecodedEncryptionKey() ([]byte, error) {
	key, err := hex.DecodeString(c.EmailEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("config: EMAIL_ENCRYPTION_KEY must be hex-encoded: %w", err)
	}
	return key, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// FrontendOrigin returns the SPA origin allowed by the CORS policy.
func (c *Config) FrontendOrigin() string {
	return c.FrontendURL
}
