package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSessionSecret is the development fallback for SESSION_SECRET.
const DefaultSessionSecret = "change-me"

// ErrInsecureSessionSecret is returned by Validate when production runs
// without a real signing secret.
var ErrInsecureSessionSecret = errors.New("SESSION_SECRET must be set to a non-default value in production")

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	SessionSecret string
	SessionTTL    time.Duration
	LogLevel      string
	CORSOrigins   []string
	SentryDSN     string
	AppEnv        string
	SeedDemoUsers bool
	SwaggerHost   string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		SessionSecret: getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionTTL:    getEnvDuration("SESSION_TTL", 12*time.Hour),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   getEnvList("CORS_ORIGINS", []string{"*"}),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		AppEnv:        getEnv("APP_ENV", "development"),
		SeedDemoUsers: getEnvBool("SEED_DEMO_USERS", true),
		SwaggerHost:   os.Getenv("SWAGGER_HOST"),
	}
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Validate rejects settings the service must not start with.
func (c *Config) Validate() error {
	if c.IsProduction() && (strings.TrimSpace(c.SessionSecret) == "" || c.SessionSecret == DefaultSessionSecret) {
		return ErrInsecureSessionSecret
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
