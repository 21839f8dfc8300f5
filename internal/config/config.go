// Package config loads server settings from the environment. A .env file,
// if present, is folded into the environment by the entry point before
// Load runs.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every tunable of the server process.
type Config struct {
	Port              string
	OriginPatterns    []string
	RevealDelay       time.Duration
	MaxPlayersPerRoom int
	RedisAddr         string
	LogLevel          string
}

// Load reads the environment, applying defaults for anything unset.
func Load() Config {
	return Config{
		Port:              getEnv("PORT", "3000"),
		OriginPatterns:    strings.Split(getEnv("ORIGIN_PATTERNS", "*"), ","),
		RevealDelay:       time.Duration(getEnvInt("REVEAL_DELAY_MS", 3000)) * time.Millisecond,
		MaxPlayersPerRoom: getEnvInt("MAX_PLAYERS_PER_ROOM", 10),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
