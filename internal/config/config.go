// Package config loads runtime configuration from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config is the full runtime configuration, resolved once at startup and
// passed explicitly to the components that need it.
type Config struct {
	Port         string
	IsProduction bool

	DataDir     string
	SessionsDir string

	// Anti-detection pacing.
	MinDelay     time.Duration
	MaxDelay     time.Duration
	GameCooldown time.Duration

	// Session lifecycle.
	MaxSessionsPerUser int
	SessionTimeout     time.Duration
	SweepInterval      time.Duration

	// Command rate limiting.
	RateLimitRPS   int
	RateLimitBurst int
	RateLimiterTTL time.Duration
}

// Load reads configuration from the environment. Every field has a default;
// malformed values fall back with a logged warning.
func Load(log *zap.Logger) Config {
	_ = godotenv.Load()

	return Config{
		Port:         getEnvString("PORT", "8080"),
		IsProduction: os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production",

		DataDir:     getEnvString("DATA_DIR", "data"),
		SessionsDir: getEnvString("SESSIONS_DIR", "sessions"),

		MinDelay:     getEnvDuration(log, "MIN_DELAY", 1500*time.Millisecond),
		MaxDelay:     getEnvDuration(log, "MAX_DELAY", 3500*time.Millisecond),
		GameCooldown: getEnvDuration(log, "COOLDOWN_BETWEEN_GAMES", 2*time.Minute),

		MaxSessionsPerUser: getEnvInt(log, "MAX_SESSIONS_PER_USER", 3),
		SessionTimeout:     getEnvDuration(log, "SESSION_TIMEOUT", 1*time.Hour),
		SweepInterval:      getEnvDuration(log, "SWEEP_INTERVAL", 5*time.Minute),

		RateLimitRPS:   getEnvInt(log, "RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt(log, "RATE_LIMIT_BURST", 10),
		RateLimiterTTL: getEnvDuration(log, "RATE_LIMITER_TTL", 1*time.Hour),
	}
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvDuration(log *zap.Logger, key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Warn("invalid duration, using default",
			zap.String("key", key), zap.Error(err), zap.Duration("default", fallback))
		return fallback
	}
	return d
}

func getEnvInt(log *zap.Logger, key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Warn("invalid int, using default",
			zap.String("key", key), zap.Error(err), zap.Int("default", fallback))
		return fallback
	}
	return i
}
