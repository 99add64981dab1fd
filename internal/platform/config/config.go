package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process level configuration shared by the HTTP server and
// the console.
type Server struct {
	Addr            string
	LogLevel        string
	LogFormat       string
	DatabaseURL     string
	SeedDemoData    bool
	EventBuffer     int
	ShutdownTimeout time.Duration
}

// ExportEnabled reports whether bookings are exported to Postgres.
func (s Server) ExportEnabled() bool {
	return s.DatabaseURL != ""
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; real
// environment variables win over it.
func FromEnv() (Server, error) {
	_ = godotenv.Load()
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Server, error) {
	cfg := Server{
		Addr:        valueOr(getenv("TRANSITBOOK_ADDR"), ":8080"),
		LogLevel:    valueOr(getenv("LOG_LEVEL"), "info"),
		LogFormat:   valueOr(getenv("LOG_FORMAT"), "json"),
		DatabaseURL: getenv("DATABASE_URL"),
	}

	seed, err := strconv.ParseBool(valueOr(getenv("SEED_DEMO_DATA"), "true"))
	if err != nil {
		return Server{}, fmt.Errorf("SEED_DEMO_DATA: %w", err)
	}
	cfg.SeedDemoData = seed

	buffer, err := strconv.Atoi(valueOr(getenv("EVENT_BUFFER"), "64"))
	if err != nil {
		return Server{}, fmt.Errorf("EVENT_BUFFER: %w", err)
	}
	if buffer < 0 {
		return Server{}, fmt.Errorf("EVENT_BUFFER must not be negative, got %d", buffer)
	}
	cfg.EventBuffer = buffer

	timeout, err := time.ParseDuration(valueOr(getenv("SHUTDOWN_TIMEOUT"), "10s"))
	if err != nil {
		return Server{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	return cfg, nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
