// Package config loads the server configuration from the environment.
//
// Variables use the PARC_ prefix. The first underscore after the prefix
// separates the section from the key, so PARC_DATABASE_QUERY_TIMEOUT maps to
// database.query_timeout. A .env file in the working directory is loaded
// first when present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload" // loads .env into the process environment
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PARC_"

// Config is the root configuration object for the application.
type Config struct {
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Auth     AuthConfig     `koanf:"auth" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
type ServerConfig struct {
	Port               int           `koanf:"port" validate:"required,min=1,max=65535"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"required"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins" validate:"required,min=1"`
}

// DatabaseConfig locates the SQLite file and bounds each statement.
type DatabaseConfig struct {
	Path         string        `koanf:"path" validate:"required"`
	MaxOpenConns int           `koanf:"max_open_conns" validate:"required,min=1"`
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"required"`
	SeedDemo     bool          `koanf:"seed_demo"`
}

// AuthConfig holds the token signing secret and the seeded admin account.
type AuthConfig struct {
	TokenSecret   string        `koanf:"token_secret" validate:"required,min=16"`
	TokenDuration time.Duration `koanf:"token_duration" validate:"required"`
	AdminName     string        `koanf:"admin_name" validate:"required"`
	AdminPassword string        `koanf:"admin_password" validate:"required"`
	AdminEmail    string        `koanf:"admin_email" validate:"omitempty,email"`
}

// Default returns the configuration used for every unset variable.
// TokenSecret has no default and must be provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Path:         "./data/parc.db",
			MaxOpenConns: 4,
			QueryTimeout: 5 * time.Second,
		},
		Auth: AuthConfig{
			TokenDuration: 24 * time.Hour,
			AdminName:     "admin",
			AdminPassword: "admin123",
			AdminEmail:    "admin@parcattraction.com",
		},
	}
}

// Load reads PARC_ variables over the defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// envKey maps PARC_SERVER_READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}
