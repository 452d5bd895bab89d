package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     int
	DBDSN    string
	BaseURL  string // used for returning absolute short URLs
	LogLevel string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func Load() Config {
	_ = godotenv.Load() // .env is optional

	return Config{
		Port:     getint("PORT", 8080),
		DBDSN:    getenv("DB_DSN", "file:linkdash.db?_foreign_keys=on"),
		BaseURL:  getenv("BASE_URL", ""),
		LogLevel: getenv("LOG_LEVEL", "info"),
	}
}
