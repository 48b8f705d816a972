package config

import (
	"os"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	RedisURL   string
	CatalogURL string
	JWTSecret  string
	Env        string
	LogLevel   string
}

func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fitlink"),
		DBPassword: getEnv("DB_PASSWORD", "fitlink_dev_password"),
		DBName:     getEnv("DB_NAME", "fitlink"),
		// empty disables the cross-instance invalidation bridge
		RedisURL:   getEnv("REDIS_URL", ""),
		CatalogURL: getEnv("CATALOG_URL", "http://localhost:8000"),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		Env:        getEnv("ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
