package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessrelay/internal/factory"
	"github.com/mcoot/chessrelay/internal/testutil"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := LoadFrom(map[string]string{})
	s.Require().NoError(err)

	s.Equal(3000, cfg.Port)
	s.Equal(time.Hour, cfg.CredentialTTL)
	s.Equal(factory.StorageTypeMemory, cfg.StorageType)
	s.Equal(64, cfg.SendBuffer)
	s.Equal(time.Duration(0), cfg.ReadTimeout)
	s.Equal(30*time.Second, cfg.PingInterval)
	s.Equal(slog.LevelInfo, cfg.LogLevel)
	s.True(cfg.InsecureSecret())
}

func (s *ConfigSuite) TestOverrides() {
	cfg, err := LoadFrom(map[string]string{
		"PORT":                       "8081",
		"HOST":                       "127.0.0.1",
		"CHESSRELAY_JWT_SECRET":      "s3cret",
		"CHESSRELAY_CREDENTIAL_TTL":  "30m",
		"CHESSRELAY_LOG_LEVEL":       "debug",
		"CHESSRELAY_READ_TIMEOUT":    "5m",
		"CHESSRELAY_PING_INTERVAL":   "0s",
		"CHESSRELAY_ORIGIN_PATTERNS": "example.com,*.example.com",
	})
	s.Require().NoError(err)

	s.Equal(8081, cfg.Port)
	s.Equal("127.0.0.1", cfg.Host)
	s.Equal(30*time.Minute, cfg.CredentialTTL)
	s.Equal(slog.LevelDebug, cfg.LogLevel)
	s.Equal(5*time.Minute, cfg.ReadTimeout)
	s.Equal(time.Duration(0), cfg.PingInterval)
	s.Equal([]string{"example.com", "*.example.com"}, cfg.OriginPatterns)
	s.False(cfg.InsecureSecret())

	server := cfg.Server()
	s.Equal(8081, server.Port)
	s.Equal("127.0.0.1", server.Host)
}

func (s *ConfigSuite) TestRedisRequiresURL() {
	_, err := LoadFrom(map[string]string{"STORAGE_TYPE": "redis"})
	s.Error(err)

	cfg, err := LoadFrom(map[string]string{
		"STORAGE_TYPE":              "redis",
		"REDIS_URL":                 "redis://localhost:6379",
		"CHESSRELAY_CREDENTIAL_TTL": "2h",
	})
	s.Require().NoError(err)

	fc := cfg.Factory(testutil.NopLogger())
	s.Equal(factory.StorageTypeRedis, fc.StorageType)
	s.Require().NotNil(fc.RedisConfig)
	s.Equal("redis://localhost:6379", fc.RedisConfig.URL)
	s.Equal(time.Duration(0), fc.RedisConfig.PlayerTTL)
}

func (s *ConfigSuite) TestRejectsUnknownStorage() {
	_, err := LoadFrom(map[string]string{"STORAGE_TYPE": "postgres"})
	s.Error(err)
}

func (s *ConfigSuite) TestRejectsBadDuration() {
	_, err := LoadFrom(map[string]string{"CHESSRELAY_CREDENTIAL_TTL": "soon"})
	s.Error(err)
}

func (s *ConfigSuite) TestFactoryMemory() {
	cfg, err := LoadFrom(map[string]string{"CHESSRELAY_JWT_SECRET": "abc", "CHESSRELAY_SEND_BUFFER": "8"})
	s.Require().NoError(err)

	fc := cfg.Factory(testutil.NopLogger())
	s.Nil(fc.RedisConfig)
	s.Equal([]byte("abc"), fc.AuthConfig.Secret)
	s.Equal(8, fc.RealtimeConfig.SendBuffer)
}
