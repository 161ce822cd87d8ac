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

// LoadENV loads the environment variables from .env when GO_ENV is unset or "development".
// A missing .env file is not an error.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV string
	PORT   int

	// Database
	STORE_BACKEND   string
	DB_USER_NAME    string
	DB_PASSWORD     string
	DB_NAME         string
	DB_HOST         string
	DB_PORT         string
	DB_SSL_MODE     string
	DB_AUTO_MIGRATE bool

	// HTTP
	ALLOWED_ORIGINS     string
	RATE_LIMIT_REQUESTS int
	RATE_LIMIT_WINDOW   time.Duration
	SHUTDOWN_TIMEOUT    time.Duration

	// Redis, optional backing store for the rate limiter
	REDIS_URL string
}

const (
	StoreBackendGORM = "gorm"
	StoreBackendSQL  = "sql"
)

func Get() (*EnvironmentVariable, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	rateLimitRequests := 100
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		if rateLimitRequests, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS %q: %w", v, err)
		}
	}

	rateLimitWindow, err := durationOr("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := durationOr("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	backend := stringOr("STORE_BACKEND", StoreBackendGORM)
	if backend != StoreBackendGORM && backend != StoreBackendSQL {
		return nil, fmt.Errorf("unknown STORE_BACKEND %q, want %q or %q", backend, StoreBackendGORM, StoreBackendSQL)
	}

	envVariables := &EnvironmentVariable{
		GO_ENV: os.Getenv("GO_ENV"),
		PORT:   port,
		// Database
		STORE_BACKEND:   backend,
		DB_USER_NAME:    os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:     os.Getenv("DB_PASSWORD"),
		DB_NAME:         os.Getenv("DB_NAME"),
		DB_HOST:         stringOr("DB_HOST", "localhost"),
		DB_PORT:         stringOr("DB_PORT", "5432"),
		DB_SSL_MODE:     stringOr("DB_SSL_MODE", "disable"),
		DB_AUTO_MIGRATE: os.Getenv("DB_AUTO_MIGRATE") != "false",
		// HTTP
		ALLOWED_ORIGINS:     stringOr("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"),
		RATE_LIMIT_REQUESTS: rateLimitRequests,
		RATE_LIMIT_WINDOW:   rateLimitWindow,
		SHUTDOWN_TIMEOUT:    shutdownTimeout,
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
	}

	return envVariables, nil
}

// DSN builds the key/value connection string understood by both lib/pq and pgx.
func (e *EnvironmentVariable) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		e.DB_HOST,
		e.DB_USER_NAME,
		e.DB_PASSWORD,
		e.DB_NAME,
		e.DB_PORT,
		e.DB_SSL_MODE,
	)
}

func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

func stringOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
