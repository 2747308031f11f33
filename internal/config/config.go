package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port                 int    `env:"PORT" envDefault:"8080"`
	DatabaseURL          string `env:"DATABASE_URL,required"`
	RedisURL             string `env:"REDIS_URL,required"`
	SessionSecret        string `env:"SESSION_SECRET"`
	BaseURL              string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	AWSRegion            string `env:"AWS_REGION" envDefault:"us-east-1"`
	EmailFrom            string `env:"EMAIL_FROM"`
	EmailFromName        string `env:"EMAIL_FROM_NAME" envDefault:"Stayhaven Guidebook"`
	GuideCacheTTLSeconds int    `env:"GUIDE_CACHE_TTL_SECONDS" envDefault:"300"`
	LogLevel             string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) GuideCacheTTL() time.Duration {
	return time.Duration(c.GuideCacheTTLSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}

		if c.EmailFrom == "" {
			log.Warn().Msg("EMAIL_FROM is empty in production: invite and notification emails disabled")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
