package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ORIGIN_PATTERNS", "REVEAL_DELAY_MS", "MAX_PLAYERS_PER_ROOM", "REDIS_ADDR", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.OriginPatterns)
	assert.Equal(t, 3*time.Second, cfg.RevealDelay)
	assert.Equal(t, 10, cfg.MaxPlayersPerRoom)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ORIGIN_PATTERNS", "example.com,*.example.org")
	t.Setenv("REVEAL_DELAY_MS", "250")
	t.Setenv("MAX_PLAYERS_PER_ROOM", "4")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"example.com", "*.example.org"}, cfg.OriginPatterns)
	assert.Equal(t, 250*time.Millisecond, cfg.RevealDelay)
	assert.Equal(t, 4, cfg.MaxPlayersPerRoom)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("REVEAL_DELAY_MS", "soon")
	cfg := Load()
	assert.Equal(t, 3*time.Second, cfg.RevealDelay)
}
