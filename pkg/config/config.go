package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-this-in-production"

// Config holds the API server settings.
type Config struct {
	Port                string
	DataDir             string
	UploadDir           string
	StoreDriver         string
	DBPath              string
	JWTSecret           string
	TokenTTL            time.Duration
	FrontendURL         string
	DemoCatalogFallback bool
	LogLevel            string
	LogFormat           string
	StatusCodes         StatusCodes
}

// UsingDefaultSecret reports whether JWT_SECRET was left unset.
func (c *Config) UsingDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnvOrDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		Port:                getEnvOrDefault("API_PORT", "8080"),
		DataDir:             getEnvOrDefault("DATA_DIR", "./database"),
		UploadDir:           getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		StoreDriver:         strings.ToLower(getEnvOrDefault("STORE_DRIVER", "file")),
		DBPath:              getEnvOrDefault("DB_PATH", "./data/catalog.db"),
		JWTSecret:           getEnvOrDefault("JWT_SECRET", defaultJWTSecret),
		TokenTTL:            ttl,
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		DemoCatalogFallback: GetEnvBool("CATALOG_DEMO_FALLBACK", false),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "text"),
		StatusCodes:         DefaultStatusCodes(),
	}

	if path := os.Getenv("STATUS_CODES_FILE"); path != "" {
		codes, err := LoadStatusCodes(path)
		if err != nil {
			return nil, err
		}
		cfg.StatusCodes = codes
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func GetEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func GetEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
