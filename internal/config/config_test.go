package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("GuideCacheTTL converts seconds to duration", func(t *testing.T) {
		cfg := &Config{GuideCacheTTLSeconds: 300}
		assert.Equal(t, 300*time.Second, cfg.GuideCacheTTL())
	})
}

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"PORT":                    os.Getenv("PORT"),
		"DATABASE_URL":            os.Getenv("DATABASE_URL"),
		"REDIS_URL":               os.Getenv("REDIS_URL"),
		"SESSION_SECRET":          os.Getenv("SESSION_SECRET"),
		"BASE_URL":                os.Getenv("BASE_URL"),
		"EMAIL_FROM":              os.Getenv("EMAIL_FROM"),
		"GUIDE_CACHE_TTL_SECONDS": os.Getenv("GUIDE_CACHE_TTL_SECONDS"),
		"LOG_LEVEL":               os.Getenv("LOG_LEVEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	t.Run("loads config with defaults", func(t *testing.T) {
		os.Setenv("DATABASE_URL", "postgres://localhost/test")
		os.Setenv("REDIS_URL", "redis://localhost:6379")
		os.Unsetenv("PORT")
		os.Unsetenv("GUIDE_CACHE_TTL_SECONDS")
		os.Unsetenv("LOG_LEVEL")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
		assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
		assert.Equal(t, 300, cfg.GuideCacheTTLSeconds)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("loads custom values", func(t *testing.T) {
		os.Setenv("DATABASE_URL", "postgres://localhost/test")
		os.Setenv("REDIS_URL", "redis://localhost:6379")
		os.Setenv("PORT", "3000")
		os.Setenv("GUIDE_CACHE_TTL_SECONDS", "60")
		os.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, 60, cfg.GuideCacheTTLSeconds)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("fails without DATABASE_URL", func(t *testing.T) {
		os.Unsetenv("DATABASE_URL")
		os.Setenv("REDIS_URL", "redis://localhost:6379")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("dev mode allows empty secret", func(t *testing.T) {
		cfg := &Config{RedisURL: "redis://localhost:6379"}
		assert.NoError(t, cfg.Validate(false))
	})

	t.Run("production rejects short secret", func(t *testing.T) {
		cfg := &Config{SessionSecret: "short", RedisURL: "rediss://host:6379"}
		err := cfg.Validate(true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SESSION_SECRET")
	})

	t.Run("production rejects missing secret", func(t *testing.T) {
		cfg := &Config{RedisURL: "rediss://host:6379"}
		assert.Error(t, cfg.Validate(true))
	})

	t.Run("production accepts strong secret", func(t *testing.T) {
		cfg := &Config{
			SessionSecret: strings.Repeat("a1b2c3d4", 4),
			RedisURL:      "rediss://host:6379",
		}
		assert.NoError(t, cfg.Validate(true))
	})
}
