package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at boot.
type Config struct {
	Port            string
	SheetsDir       string
	RegistryBackend string // "file" or "redis"
	RegistryFile    string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	// Term window for date columns. Fixed once ledgers exist.
	TermStart time.Time
	TermEnd   time.Time
	OffDay    time.Weekday
}

// Load reads .env (if present) and the environment. Missing values fall
// back to defaults matching the reference deployment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		SheetsDir:       getEnv("SHEETS_DIR", "./attendance_sheets"),
		RegistryBackend: getEnv("REGISTRY_BACKEND", "file"),
		RegistryFile:    getEnv("REGISTRY_FILE", "./registry.json"),
		RedisAddr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "8"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = db

	cfg.TermStart, err = time.Parse("2006-01-02", getEnv("TERM_START", "2024-12-08"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TERM_START: %w", err)
	}
	cfg.TermEnd, err = time.Parse("2006-01-02", getEnv("TERM_END", "2025-04-30"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TERM_END: %w", err)
	}

	cfg.OffDay, err = parseWeekday(getEnv("TERM_OFF_DAY", "Sunday"))
	if err != nil {
		return Config{}, err
	}

	if cfg.RegistryBackend != "file" && cfg.RegistryBackend != "redis" {
		return Config{}, fmt.Errorf("unknown REGISTRY_BACKEND %q (want file or redis)", cfg.RegistryBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid TERM_OFF_DAY %q", name)
}
