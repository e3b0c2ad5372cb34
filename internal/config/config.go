// Package config provides configuration management for Servium.
//
// Configuration is loaded in the following order (later sources override
// earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./config.yaml, ./configs/config.yaml,
//     ~/.servium/config.yaml, /etc/servium/config.yaml)
//  3. .env files
//  4. Environment variables (SC_ prefix)
//
// Environment variables use the SC_ prefix with underscores for nested keys:
//   - SC_SERVER_PORT=8090
//   - SC_DATABASE_DSN="catalog:secret@tcp(localhost:3306)/servium?parseTime=true"
//   - SC_SECURITY_JWT_SECRET=...
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure for Servium.
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database contains relational store connection settings
	Database DatabaseConfig `mapstructure:"database"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging"`

	// Security contains authentication and rate limiting settings
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address (default: 0.0.0.0)
	Host string `mapstructure:"host"`

	// Port is the server listen port (default: 8090)
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Debug enables debug logging and verbose error details
	Debug bool `mapstructure:"debug"`
}

// DatabaseConfig contains relational store connection settings.
// The driver is mysql in deployments; sqlite is used by the test suites.
type DatabaseConfig struct {
	// Driver selects the gorm dialect: mysql or sqlite
	Driver string `mapstructure:"driver"`

	// DSN is the full data source name passed to the driver
	DSN string `mapstructure:"dsn"`

	// MaxOpenConns caps the connection pool shared across requests
	MaxOpenConns int `mapstructure:"max_open_conns"`

	// MaxIdleConns is the number of idle connections kept in the pool
	MaxIdleConns int `mapstructure:"max_idle_conns"`

	// ConnMaxLifetime bounds how long a pooled connection is reused
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the log output format (json, text)
	Format string `mapstructure:"format"`
}

// SecurityConfig contains security and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret is the HS256 signing secret used to verify bearer tokens
	JWTSecret string `mapstructure:"jwt_secret"`

	// JWTExpiration is the lifetime applied when minting dev tokens
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`

	// RateLimit is the per-second request limit (0 disables limiting)
	RateLimit float64 `mapstructure:"rate_limit"`

	// AllowedOrigins is the CORS origin allow-list
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DSNMasked returns the DSN with any password portion replaced, for logging.
func (d *DatabaseConfig) DSNMasked() string {
	// user:password@tcp(host)/db -> user:***@tcp(host)/db
	if at := strings.Index(d.DSN, "@"); at > 0 {
		if colon := strings.Index(d.DSN[:at], ":"); colon > 0 {
			return d.DSN[:colon+1] + "***" + d.DSN[at:]
		}
	}
	return d.DSN
}

var cfg *Config

// Load reads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SC_ prefix)
//  2. .env file
//  3. Configuration file
//  4. Default values
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.servium")
		v.AddConfigPath("/etc/servium")
	}

	if err := v.ReadInConfig(); err != nil {
		// An absent config file falls back to defaults; anything else
		// (unreadable file, bad YAML) is fatal.
		if cfgFile != "" {
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("SC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "servium:servium@tcp(localhost:3306)/servium?parseTime=true&charset=utf8mb4")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("security.jwt_secret", "change-me-in-production")
	v.SetDefault("security.jwt_expiration", "24h")
	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.allowed_origins", []string{"*"})
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	switch cfg.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}

	if cfg.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}

	if cfg.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required")
	}

	return nil
}

// Get returns the most recently loaded configuration.
func Get() *Config {
	return cfg
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
