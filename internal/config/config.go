package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Storage drivers understood by Load.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// EnvDevelopment relaxes the session cookie Secure flag for plain-HTTP local runs.
const EnvDevelopment = "development"

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port          string
	Env           string
	StorageDriver string
	DatabaseURL   string
	SQLitePath    string
	JWTSecret     string
	JWTIssuer     string
	CORSOrigins   []string
	BasePath      string
	LogLevel      string
	LogFormat     string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), "8080"),
		Env:           strings.ToLower(fallback(os.Getenv("APP_ENV"), "production")),
		StorageDriver: strings.ToLower(fallback(os.Getenv("STORAGE_DRIVER"), DriverPostgres)),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:    fallback(os.Getenv("SQLITE_PATH"), "countries.db"),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:     fallback(os.Getenv("JWT_ISSUER"), "country-explorer"),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		BasePath:      normalizeBasePath(fallback(os.Getenv("API_BASE_PATH"), "/api")),
		LogLevel:      strings.ToLower(fallback(os.Getenv("LOG_LEVEL"), "info")),
		LogFormat:     strings.ToLower(fallback(os.Getenv("LOG_FORMAT"), "json")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// SecureCookies reports whether session cookies must carry the Secure attribute.
func (c Config) SecureCookies() bool {
	return c.Env != EnvDevelopment
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// normalizeBasePath turns "api/", "/api/" and "/api" into "/api"; "/" disables the prefix.
func normalizeBasePath(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}
