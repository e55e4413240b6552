// Package config loads process configuration from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config is everything main needs to wire the process.
type Config struct {
	// Store selects the data-service binding: "rest" (hosted data service)
	// or "gorm" (direct SQL).
	StoreBackend string
	StoreURL     string
	StoreAPIKey  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	RunMigrations bool

	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret string

	LockoutMaxAttempts   int
	LockoutWindowSeconds int

	SearchRateLimit         int
	SearchRateWindowSeconds int

	ListenAddr string
}

// Load reads the environment. Missing numeric values fall back to the
// documented defaults (5 attempts / 15 min lockout, 30 searches / min).
func Load() Config {
	return Config{
		StoreBackend:  envOr("STORE_BACKEND", "gorm"),
		StoreURL:      os.Getenv("STORE_URL"),
		StoreAPIKey:   os.Getenv("STORE_API_KEY"),
		DBHost:        envOr("DB_HOST", "localhost"),
		DBPort:        envOr("DB_PORT", "5432"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     envOr("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		LockoutMaxAttempts:      envInt("LOCKOUT_MAX_ATTEMPTS", 5),
		LockoutWindowSeconds:    envInt("LOCKOUT_WINDOW_SECONDS", 900),
		SearchRateLimit:         envInt("SEARCH_RATE_LIMIT", 30),
		SearchRateWindowSeconds: envInt("SEARCH_RATE_WINDOW_SECONDS", 60),

		ListenAddr: envOr("LISTEN_ADDR", ":8080"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
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
