package domain

import (
	"fmt"
	"time"
)

// Validation ceilings for client configuration.
const (
	maxTokenCeiling     = 50000
	maxTimeoutMs        = 60000
	maxRateLimitPerMin  = 1000
	defaultReqTimeoutMs = 30000
)

// ClientConfig holds the process-lifetime client settings. It is validated
// once at construction and read-only afterwards.
type ClientConfig struct {
	Model              string `env:"WICK_MODEL"                 envDefault:"gemini-1.5-flash"`
	MaxTokens          int    `env:"WICK_MAX_TOKENS"            envDefault:"8192"`
	TimeoutMs          int    `env:"WICK_TIMEOUT_MS"            envDefault:"30000"`
	RateLimitPerMinute int    `env:"WICK_RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	Debug              bool   `env:"WICK_DEBUG"                 envDefault:"false"`
}

// Validate checks the configuration ranges. Invalid configuration is a
// construction-time failure, never a per-request one.
func (c ClientConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxTokens <= 0 || c.MaxTokens > maxTokenCeiling {
		return fmt.Errorf("max tokens must be in (0, %d], got %d", maxTokenCeiling, c.MaxTokens)
	}
	if c.TimeoutMs <= 0 || c.TimeoutMs > maxTimeoutMs {
		return fmt.Errorf("timeout must be in (0, %d]ms, got %d", maxTimeoutMs, c.TimeoutMs)
	}
	if c.RateLimitPerMinute <= 0 || c.RateLimitPerMinute > maxRateLimitPerMin {
		return fmt.Errorf("rate limit must be in (0, %d] per minute, got %d", maxRateLimitPerMin, c.RateLimitPerMinute)
	}
	return nil
}

// Timeout returns the per-request deadline as a duration.
func (c ClientConfig) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return defaultReqTimeoutMs * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
