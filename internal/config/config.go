package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/mkarlin/wick/internal/domain"
	"github.com/mkarlin/wick/internal/provider/gemini"
	"github.com/mkarlin/wick/internal/provider/openaicompat"
)

// Config represents the full client configuration.
type Config struct {
	Client    domain.ClientConfig
	Gemini    gemini.Config
	OpenAI    openaicompat.Config
	Transport string `env:"WICK_TRANSPORT" envDefault:"gemini"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Client *domain.ClientConfig
	Gemini *gemini.Config
	OpenAI *openaicompat.Config
}

// Load loads environment files, parses configuration, and validates it.
// Invalid configuration is fatal here, never surfaced per request.
func Load() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Client.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Client: &cfg.Client,
		Gemini: &cfg.Gemini,
		OpenAI: &cfg.OpenAI,
	}
}
