// Package config loads process-wide settings once at startup.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds everything main needs to wire the application.
type Config struct {
	AppPort     string
	Database    DatabaseConfig
	JWT         JWTConfig
	BcryptCost  int
	RabbitMQURL string // empty disables item events
	Bootstrap   BootstrapConfig
}

// BootstrapConfig names the account created at startup when it does not
// exist yet. User routes require an active user, so this is how the first
// account comes to be. Both fields empty disables it.
type BootstrapConfig struct {
	UserName string
	Password string
}

// Enabled reports whether a bootstrap account is configured.
func (b BootstrapConfig) Enabled() bool {
	return b.UserName != ""
}

// DatabaseConfig describes the storage connection.
type DatabaseConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

// JWTConfig holds the token signing settings.
type JWTConfig struct {
	Secret         string
	Algorithm      string
	AccessTokenTTL time.Duration
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=lolitems port=5432 sslmode=disable")
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("ACCESS_TOKEN_TTL", "30m")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("BOOTSTRAP_USER", "")
	v.SetDefault("BOOTSTRAP_PASSWORD", "")
}

// Load reads configuration from v, which should already have its sources
// (environment, config file) attached.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		AppPort: v.GetString("APP_PORT"),
		Database: DatabaseConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER"))),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		JWT: JWTConfig{
			Secret:         strings.TrimSpace(v.GetString("JWT_SECRET")),
			Algorithm:      strings.ToUpper(strings.TrimSpace(v.GetString("JWT_ALGORITHM"))),
			AccessTokenTTL: v.GetDuration("ACCESS_TOKEN_TTL"),
		},
		BcryptCost:  v.GetInt("BCRYPT_COST"),
		RabbitMQURL: strings.TrimSpace(v.GetString("RABBITMQ_URL")),
		Bootstrap: BootstrapConfig{
			UserName: strings.TrimSpace(v.GetString("BOOTSTRAP_USER")),
			Password: v.GetString("BOOTSTRAP_PASSWORD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM %q", c.JWT.Algorithm)
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.JWT.AccessTokenTTL)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("DATABASE_DSN is required")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if (c.Bootstrap.UserName == "") != (c.Bootstrap.Password == "") {
		return errors.New("BOOTSTRAP_USER and BOOTSTRAP_PASSWORD must be set together")
	}
	return nil
}
