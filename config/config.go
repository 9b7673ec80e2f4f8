package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	DBPath        string
	GinMode       string
	FlushInterval time.Duration
}

func Load() Config {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "./perpustakaan.db"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		FlushInterval: time.Duration(getEnvAsInt("FLUSH_INTERVAL_SECONDS", 5)) * time.Second,
	}

	return cfg
}

func getEnv(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

func getEnvAsInt(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid integer for %s, fallback to %d", key, def)
		return def
	}
	return parsed
}
