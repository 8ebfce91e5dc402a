package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "REDIS_ADDR", "REDIS_DB", "SESSION_SECRET", "SESSION_TTL",
		"LOG_LEVEL", "CORS_ORIGINS", "APP_ENV", "SEED_DEMO_USERS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedDemoUsers)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("SEED_DEMO_USERS", "false")

	cfg := Load()
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.SeedDemoUsers)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("SESSION_TTL", "-5m")
	t.Setenv("SEED_DEMO_USERS", "maybe")

	cfg := Load()
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.SeedDemoUsers)
}

func TestValidate_SessionSecret(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr bool
	}{
		{name: "development default", env: "development", secret: ""},
		{name: "production default", env: "production", secret: "", wantErr: true},
		{name: "production explicit default", env: "production", secret: DefaultSessionSecret, wantErr: true},
		{name: "production blank", env: "PRODUCTION", secret: "   ", wantErr: true},
		{name: "production real secret", env: "production", secret: "s3cr3t-rotated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)
			t.Setenv("SESSION_SECRET", tt.secret)

			err := Load().Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsecureSessionSecret)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
