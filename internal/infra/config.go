package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	DBMaxConns       int
	MigrateOnStart   bool
	RedisURL         string
	JWTSecret        string
	SessionTTL       time.Duration
	SessionCacheTTL  time.Duration
	CookieSecure     bool
	GeoIPDBPath      string
	GoogleClientID   string
	GoogleIssuer     string
	DefaultLocale    string
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBMaxConns:       getEnvInt("DB_MAX_CONNS", 10),
		MigrateOnStart:   getEnvBool("MIGRATE_ON_START", false),
		RedisURL:         os.Getenv("REDIS_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SessionTTL:       time.Hour * time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)),
		SessionCacheTTL:  time.Second * time.Duration(getEnvInt("SESSION_CACHE_TTL_SECONDS", 30)),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		GoogleClientID:   os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleIssuer:     getEnv("GOOGLE_ISSUER", "https://accounts.google.com"),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "en"),
		AllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", cfg.AppEnv == "production")

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MigrateOnStart && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("MIGRATE_ON_START requires DATABASE_URL")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
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
