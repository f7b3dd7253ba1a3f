package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DataDir            string
	StoreDriver        string
	DatabaseURL        string
	SQLitePath         string
	JWTSecret          string
	TokenTTL           time.Duration
	CorsAllowedOrigins []string
	LoginRateLimit     int
	AdminUsername      string
	AdminPassword      string
	LogLevel           string
	TraceEndpoint      string
	ServiceName        string
}

// Load reads the environment, after merging a .env file if one exists.
// driver is the storage backend used when neither STORE_DRIVER nor
// DATABASE_URL chooses one.
func Load(driver string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "10000"),
		DataDir:            getEnv("DATA_DIR", "."),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SQLitePath:         getEnv("SQLITE_PATH", "browser.db"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminUsername:      getEnv("ADMIN_USERNAME", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TraceEndpoint:      getEnv("TRACE_ENDPOINT", ""),
		ServiceName:        getEnv("SERVICE_NAME", "radu-browser"),
	}

	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", ""))
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = driver
		if cfg.DatabaseURL != "" {
			cfg.StoreDriver = "postgres"
		}
	}
	switch cfg.StoreDriver {
	case "file", "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for STORE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h")); err != nil || cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}
	if cfg.LoginRateLimit, err = strconv.Atoi(getEnv("LOGIN_RATE_LIMIT", "5")); err != nil {
		return Config{}, fmt.Errorf("invalid LOGIN_RATE_LIMIT: %w", err)
	}
	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
