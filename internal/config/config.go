package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const maxImportWorkers = 10

type Config struct {
	DatabaseURL string
	Port        string
	RedisURL    string

	ImportBaseDir   string
	ImportWorkers   int
	ImportBatchSize int
	JobLease        time.Duration
	ResultTTL       time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Port:            getEnv("PORT", "8080"),
		RedisURL:        os.Getenv("REDIS_URL"),
		ImportBaseDir:   getEnv("IMPORT_BASE_DIR", "."),
		ImportWorkers:   clampWorkers(parseIntEnv("IMPORT_WORKERS", 2)),
		ImportBatchSize: parseIntEnv("IMPORT_BATCH_SIZE", 100),
		JobLease:        time.Duration(parseIntEnv("IMPORT_JOB_LEASE_SECONDS", 60)) * time.Second,
		ResultTTL:       time.Duration(parseIntEnv("IMPORT_RESULT_TTL_HOURS", 168)) * time.Hour,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.ImportBatchSize < 1 || cfg.ImportBatchSize > 1000 {
		return Config{}, fmt.Errorf("IMPORT_BATCH_SIZE must be between 1 and 1000, got %d", cfg.ImportBatchSize)
	}
	if cfg.JobLease <= 0 {
		return Config{}, errors.New("IMPORT_JOB_LEASE_SECONDS must be positive")
	}

	return cfg, nil
}

func clampWorkers(workers int) int {
	if workers <= 0 {
		return 2
	}
	if workers > maxImportWorkers {
		return maxImportWorkers
	}
	return workers
}

func parseIntEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
