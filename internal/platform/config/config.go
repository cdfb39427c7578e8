// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package config reads process settings from the environment.
//
// A local .env file is applied first when present; variables already set in
// the environment take precedence. The resulting [Config] is passed by pointer
// to constructors and never mutated after Load.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// minProductionKeyLength is the smallest HMAC key accepted outside development.
const minProductionKeyLength = 32

// Config is the API server's runtime configuration.
type Config struct {
	AppName     string `env:"APP_NAME"     envDefault:"HallyuLatino API"`
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	RedisURL      string `env:"REDIS_URL,required"`

	// ProfileCacheTTL bounds how long a cached account profile may be served.
	ProfileCacheTTL time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"5m"`

	// Token signing. The key and algorithm are fixed for the process lifetime.
	JWTSecretKey             string `env:"JWT_SECRET_KEY,required"`
	JWTAlgorithm             string `env:"JWT_ALGORITHM"               envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	RefreshTokenExpireDays   int    `env:"REFRESH_TOKEN_EXPIRE_DAYS"   envDefault:"7"`

	// Browser origins allowed by CORS outside development.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

/*
Load applies .env, parses the environment and validates the result.

Returns:
  - *Config: validated configuration
  - error: unreadable .env, missing required variables or failed [Config.Validate]
*/
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown environments, non-positive token lifetimes and a
// short signing key in production.
func (c *Config) Validate() error {
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("config: unknown environment %q", c.Environment)
	}

	if c.AccessTokenExpireMinutes <= 0 {
		return errors.New("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.RefreshTokenExpireDays <= 0 {
		return errors.New("config: REFRESH_TOKEN_EXPIRE_DAYS must be positive")
	}

	if c.IsProduction() && len(c.JWTSecretKey) < minProductionKeyLength {
		return fmt.Errorf("config: JWT_SECRET_KEY must be at least %d bytes in production", minProductionKeyLength)
	}

	return nil
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}

func (c *Config) IsDevelopment() bool { return c.Environment == "development" }

func (c *Config) IsProduction() bool { return c.Environment == "production" }

// AllowedOrigins satisfies middleware.CORSConfig.
func (c *Config) AllowedOrigins() []string { return c.CORSOrigins }
