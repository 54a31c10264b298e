package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config is loaded once at process start and never mutated afterwards.
// Every component receives the slice of it that it needs through
// constructor injection; there is no ambient global state.
type Config struct {
	AppPort string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	// Token signing settings.
	JWTSecret   []byte // raw HMAC-SHA256 key material, single static secret
	JWTIssuer   string
	JWTAudience string
	ExpiryHours int

	// Lockout bookkeeping (credential store internals).
	LockoutThreshold int
	LockoutWindow    time.Duration
}

func Load() (Config, error) {
	expiryHours, err := getEnvInt("JWT_EXPIRY_HOURS", 1)
	if err != nil {
		return Config{}, err
	}

	lockoutThreshold, err := getEnvInt("LOCKOUT_THRESHOLD", 5)
	if err != nil {
		return Config{}, err
	}

	lockoutMinutes, err := getEnvInt("LOCKOUT_WINDOW_MINUTES", 5)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppPort: getEnv("APP_PORT", "8080"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
		JWTIssuer:   getEnv("JWT_ISSUER", "NerdStoreEnterprise"),
		JWTAudience: getEnv("JWT_AUDIENCE", "https://localhost"),
		ExpiryHours: expiryHours,

		LockoutThreshold: lockoutThreshold,
		LockoutWindow:    time.Duration(lockoutMinutes) * time.Minute,
	}

	if len(cfg.JWTSecret) == 0 {
		return Config{}, errors.New("config: JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("config: " + key + " must be an integer")
	}
	return n, nil
}
