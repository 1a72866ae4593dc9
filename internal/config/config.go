package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config holds process-wide settings resolved from the environment.
type Config struct {
	AppEnv           string
	AppName          string
	InstanceID       string
	HTTPAddr         string
	LogLevel         string
	DBURL            string
	RedisURL         string
	JWTSecret        string
	PersistTimeout   time.Duration
	AllowedOrigins   []string
	AsynqConcurrency int
	AsynqQueues      string
}

// Load reads an optional .env file and then resolves Config from the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv resolves Config using the provided lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppEnv:      strings.TrimSpace(getenv("APP_ENV")),
		AppName:     strings.TrimSpace(getenv("APP_NAME")),
		InstanceID:  strings.TrimSpace(getenv("INSTANCE_ID")),
		HTTPAddr:    strings.TrimSpace(getenv("HTTP_ADDR")),
		LogLevel:    strings.TrimSpace(getenv("LOG_LEVEL")),
		DBURL:       strings.TrimSpace(getenv("DB_URL")),
		RedisURL:    strings.TrimSpace(getenv("REDIS_URL")),
		JWTSecret:   getenv("JWT_SECRET"),
		AsynqQueues: strings.TrimSpace(getenv("ASYNQ_QUEUES")),
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.AppName == "" {
		cfg.AppName = "go-messenger"
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":4000"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.PersistTimeout = 5 * time.Second
	if v := strings.TrimSpace(getenv("PERSIST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PERSIST_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("invalid PERSIST_TIMEOUT: must be positive, got %s", d)
		}
		cfg.PersistTimeout = d
	}

	cfg.AsynqConcurrency = 10
	if v := strings.TrimSpace(getenv("ASYNQ_CONCURRENCY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ASYNQ_CONCURRENCY: %w", err)
		}
		if n > 0 {
			cfg.AsynqConcurrency = n
		}
	}

	for _, origin := range strings.Split(getenv("WS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required environment variable JWT_SECRET")
	}
	return cfg, nil
}

// InMemory reports whether the service should run without Postgres.
func (c *Config) InMemory() bool { return c.DBURL == "" }

// RedisEnabled reports whether redis-backed cache, bus and queue should be wired.
func (c *Config) RedisEnabled() bool { return c.RedisURL != "" }
