package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the runtime settings, populated from the environment
type Config struct {
	ServerAddr        string        `env:"SERVER_ADDR" env-default:":8080"`
	DBPath            string        `env:"DB_PATH" env-default:"data"`
	RatesAPIBaseURL   string        `env:"RATES_API_BASE_URL" env-default:"https://api.exchangerate-api.com/v4/latest"`
	FetchTimeout      time.Duration `env:"FETCH_TIMEOUT" env-default:"10s"`
	FetchRetries      uint64        `env:"FETCH_RETRIES" env-default:"2"`
	ReferenceCurrency string        `env:"REFERENCE_CURRENCY" env-default:"USD"`
	LogLevel          string        `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}

	cfg.ReferenceCurrency = strings.ToUpper(strings.TrimSpace(cfg.ReferenceCurrency))
	if cfg.ReferenceCurrency == "" {
		return nil, fmt.Errorf("REFERENCE_CURRENCY must not be empty")
	}

	return &cfg, nil
}
