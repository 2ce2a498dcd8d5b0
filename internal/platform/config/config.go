package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const DefaultSystemPrompt = "You are Nyota, a warm and curious assistant chatting in a terminal. " +
	"Keep answers concise unless the user asks for detail."

type Config struct {
	Model        string `env:"NYOTA_MODEL" default:"gpt-4o-mini"`
	SystemPrompt string `env:"SYSTEM_PROMPT"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OllamaURL        string `env:"OLLAMA_URL" default:"http://localhost:11434/v1/"`

	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" default:"60s"`
	LLMRateLimit   float64       `env:"LLM_RATE_LIMIT" default:"1"`
	LLMMaxAttempts int           `env:"LLM_MAX_ATTEMPTS" default:"3"`

	RedisURL      string        `env:"REDIS_URL"`
	CacheCapacity int           `env:"CACHE_CAPACITY" default:"128"`
	CacheTTL      time.Duration `env:"CACHE_TTL" default:"24h"`

	EmojiExpansion bool   `env:"EMOJI_EXPANSION" default:"true"`
	DebugAddr      string `env:"DEBUG_ADDR"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
	LogFile   string `env:"LOG_FILE"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Model == "" {
		return errors.New("NYOTA_MODEL must not be empty")
	}
	if cfg.CacheCapacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be at least 1, got %d", cfg.CacheCapacity)
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.CacheTTL)
	}
	if cfg.LLMRateLimit <= 0 {
		return fmt.Errorf("LLM_RATE_LIMIT must be positive, got %v", cfg.LLMRateLimit)
	}
	if cfg.LLMMaxAttempts < 1 {
		return fmt.Errorf("LLM_MAX_ATTEMPTS must be at least 1, got %d", cfg.LLMMaxAttempts)
	}
	if cfg.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %s", cfg.LLMTimeout)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return nil
}

// APIKeys returns the configured provider keys by environment variable name.
func (c *Config) APIKeys() map[string]string {
	return map[string]string{
		"OPENAI_API_KEY":     c.OpenAIAPIKey,
		"ANTHROPIC_API_KEY":  c.AnthropicAPIKey,
		"OPENROUTER_API_KEY": c.OpenRouterAPIKey,
	}
}
