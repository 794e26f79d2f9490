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

const (
	defaultPort        = "8080"
	defaultJWTSecret   = "change-me-jwt-secret"
	defaultJWTTTL      = "24h"
	defaultLockTTL     = "10s"
	defaultServiceName = "sharespot-bookings"
)

type Config struct {
	AppEnv string
	Port   string

	// DatabaseURL selects the stores: empty keeps bookings and items in memory,
	// postgres:// uses postgres, anything else is a sqlite file path.
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// RedisURL switches the per-item lock from in-process to redis.
	RedisURL    string
	ItemLockTTL time.Duration

	EnforceAvailabilityWindows bool
	CORSAllowedOrigins         []string

	OTLPEndpoint string
	ServiceName  string
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.OTLPEndpoint = strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	cfg.ServiceName = strings.TrimSpace(getEnv("OTEL_SERVICE_NAME", defaultServiceName))
	cfg.EnforceAvailabilityWindows = parseBoolEnv("ENFORCE_AVAILABILITY_WINDOWS", "false")
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.ItemLockTTL, err = parseDurationEnv("ITEM_LOCK_TTL", defaultLockTTL)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s port=%s store=%s redis=%t windows=%t tracing=%t",
		cfg.AppEnv, cfg.Port, cfg.StoreKind(), cfg.RedisURL != "", cfg.EnforceAvailabilityWindows, cfg.OTLPEndpoint != "")

	return cfg, nil
}

// StoreKind is "memory", "postgres" or "sqlite".
func (c *Config) StoreKind() string {
	switch {
	case c.DatabaseURL == "":
		return "memory"
	case strings.HasPrefix(c.DatabaseURL, "postgres://"), strings.HasPrefix(c.DatabaseURL, "postgresql://"):
		return "postgres"
	default:
		return "sqlite"
	}
}

func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return fmt.Errorf("PORT must be a number, got %q", cfg.Port)
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.ItemLockTTL <= 0 {
		return fmt.Errorf("ITEM_LOCK_TTL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("in prod/release DATABASE_URL must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
