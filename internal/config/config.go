package config

import (
	"fmt"
	"os"
	"strings"
)

// Config aggregates application configuration values.
type Config struct {
	Logging LoggingConfig
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Environment string // production|staging|uat|development|local
	Level       string // empty derives the level from Environment
}

const defaultEnvironment = "production"

var knownEnvironments = map[string]struct{}{
	"production":  {},
	"staging":     {},
	"uat":         {},
	"development": {},
	"local":       {},
}

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Logging: LoggingConfig{
			Environment: strings.ToLower(valueOrDefault("APP_ENV", defaultEnvironment)),
			Level:       strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		},
	}

	if _, ok := knownEnvironments[cfg.Logging.Environment]; !ok {
		return Config{}, fmt.Errorf("invalid APP_ENV %q", cfg.Logging.Environment)
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
