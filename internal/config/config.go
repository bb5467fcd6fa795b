// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/chessrelay/internal/api"
	"github.com/mcoot/chessrelay/internal/factory"
	"github.com/mcoot/chessrelay/internal/realtime"
	"github.com/mcoot/chessrelay/internal/services/auth"
	redisstorage "github.com/mcoot/chessrelay/internal/storage/redis"
)

// Config is the full server configuration
type Config struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"3000"`

	LogLevel slog.Level `env:"CHESSRELAY_LOG_LEVEL" envDefault:"info"`

	JWTSecret     string        `env:"CHESSRELAY_JWT_SECRET"`
	CredentialTTL time.Duration `env:"CHESSRELAY_CREDENTIAL_TTL" envDefault:"1h"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`

	SendBuffer     int           `env:"CHESSRELAY_SEND_BUFFER" envDefault:"64"`
	ReadTimeout    time.Duration `env:"CHESSRELAY_READ_TIMEOUT" envDefault:"0s"`
	PingInterval   time.Duration `env:"CHESSRELAY_PING_INTERVAL" envDefault:"30s"`
	OriginPatterns []string      `env:"CHESSRELAY_ORIGIN_PATTERNS" envSeparator:","`

	ShutdownTimeout time.Duration `env:"CHESSRELAY_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads configuration from the process environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFrom reads configuration from the given variables instead of the process environment
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints
func (c Config) Validate() error {
	switch c.StorageType {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be 'memory' or 'redis'", c.StorageType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.CredentialTTL <= 0 {
		return errors.New("CHESSRELAY_CREDENTIAL_TTL must be positive")
	}
	return nil
}

// InsecureSecret reports whether no signing secret was configured, in which
// case the built-in development secret is used
func (c Config) InsecureSecret() bool {
	return c.JWTSecret == ""
}

// Factory converts the configuration into application factory settings
func (c Config) Factory(logger *slog.Logger) factory.Config {
	authCfg := auth.Config{
		Secret:        []byte(c.JWTSecret),
		CredentialTTL: c.CredentialTTL,
	}

	cfg := factory.Config{
		AuthConfig: authCfg,
		RealtimeConfig: realtime.Config{
			SendBuffer:     c.SendBuffer,
			ReadTimeout:    c.ReadTimeout,
			PingInterval:   c.PingInterval,
			OriginPatterns: c.OriginPatterns,
		},
		Logger:      logger,
		StorageType: c.StorageType,
	}

	if c.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// Server converts the configuration into HTTP server settings
func (c Config) Server() api.ServerConfig {
	cfg := api.DefaultServerConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	cfg.ShutdownTimeout = c.ShutdownTimeout
	return cfg
}
