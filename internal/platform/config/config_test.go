package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, DefaultSystemPrompt, cfg.SystemPrompt)
	assert.Equal(t, "http://localhost:11434/v1/", cfg.OllamaURL)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.InDelta(t, 1.0, cfg.LLMRateLimit, 1e-12)
	assert.Equal(t, 3, cfg.LLMMaxAttempts)
	assert.Equal(t, 128, cfg.CacheCapacity)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.True(t, cfg.EmojiExpansion)
	assert.Empty(t, cfg.DebugAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("NYOTA_MODEL", "claude-3-5-haiku-latest")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("SYSTEM_PROMPT", "Be brief.")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("LLM_RATE_LIMIT", "0.5")
	t.Setenv("CACHE_CAPACITY", "16")
	t.Setenv("EMOJI_EXPANSION", "false")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("DEBUG_ADDR", "127.0.0.1:7070")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Model)
	assert.Equal(t, "Be brief.", cfg.SystemPrompt)
	assert.Equal(t, 15*time.Second, cfg.LLMTimeout)
	assert.InDelta(t, 0.5, cfg.LLMRateLimit, 1e-12)
	assert.Equal(t, 16, cfg.CacheCapacity)
	assert.False(t, cfg.EmojiExpansion)
	assert.Equal(t, "redis://localhost:6379/2", cfg.RedisURL)
	assert.Equal(t, "127.0.0.1:7070", cfg.DebugAddr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "sk-ant-test", cfg.APIKeys()["ANTHROPIC_API_KEY"])
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"zero capacity", "CACHE_CAPACITY", "0", "CACHE_CAPACITY must be at least 1, got 0"},
		{"negative rate", "LLM_RATE_LIMIT", "-1", "LLM_RATE_LIMIT must be positive, got -1"},
		{"zero attempts", "LLM_MAX_ATTEMPTS", "0", "LLM_MAX_ATTEMPTS must be at least 1, got 0"},
		{"zero timeout", "LLM_TIMEOUT", "0s", "LLM_TIMEOUT must be positive, got 0s"},
		{"bad level", "LOG_LEVEL", "trace", `LOG_LEVEL must be one of debug, info, warn, error, got "trace"`},
		{"bad format", "LOG_FORMAT", "xml", `LOG_FORMAT must be text or json, got "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoad_UnparsableDuration(t *testing.T) {
	t.Setenv("CACHE_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load environment variables")
}
