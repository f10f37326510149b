// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSecretKey is the symmetric signing key for access tokens. Required; startup fails without it.
	JWTSecretKey string `mapstructure:"JWT_SECRET_KEY"`
	// JWTAlgorithm is the HMAC signing algorithm name: HS256, HS384, or HS512.
	JWTAlgorithm string `mapstructure:"JWT_ALGORITHM"`
	// JWTIssuer is the iss claim set on issued tokens and required on validation.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAccessTTL is the access token lifetime (e.g. "30m"). Must parse as
	// a positive duration; startup fails otherwise.
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// LogLevel is the zap log level (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// AdminEmail is the initial superuser email used by cmd/seed.
	AdminEmail string `mapstructure:"ADMIN_EMAIL"`
	// AdminPassword is the initial superuser password used by cmd/seed.
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// accessTTL is JWTAccessTTL parsed and validated by Load.
	accessTTL time.Duration
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("JWT_ISSUER", "contacthub")
	v.SetDefault("JWT_ACCESS_TTL", "30m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("config: JWT_SECRET_KEY must be set")
	}
	switch cfg.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("config: JWT_ALGORITHM must be HS256, HS384, or HS512, got %q", cfg.JWTAlgorithm)
	}
	if cfg.JWTIssuer == "" {
		return nil, errors.New("config: JWT_ISSUER must be set")
	}

	ttl, err := time.ParseDuration(cfg.JWTAccessTTL)
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("config: JWT_ACCESS_TTL must be a positive duration, got %q", cfg.JWTAccessTTL)
	}
	cfg.accessTTL = ttl

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL returns the access token lifetime parsed and validated by Load.
func (c *Config) AccessTTL() time.Duration {
	return c.accessTTL
}
