package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.GoEnv)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RateLimitPerSec)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, int64(10*1024*1024), cfg.UploadMaxSize)
	assert.True(t, cfg.IsDevelopment())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("GO_ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_EXPIRY", "1h30m")
	t.Setenv("RATE_LIMIT_PER_SEC", "20")
	t.Setenv("CORS_ORIGINS", "https://vinoteca.app, https://staging.vinoteca.app")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, 20, cfg.RateLimitPerSec)
	assert.Equal(t, []string{"https://vinoteca.app", "https://staging.vinoteca.app"}, cfg.CORSOrigins)
}

func TestLoadConfig_BadInteger(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("HTTP_PORT", "not-a-number")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			HTTPPort:      8080,
			JWTSecret:     "0123456789abcdef0123456789abcdef",
			LogLevel:      "info",
			LogFormat:     "json",
			UploadMaxSize: 1024,
		}
	}

	assert.NoError(t, base().Validate())

	short := base()
	short.JWTSecret = "too-short"
	assert.Error(t, short.Validate())

	port := base()
	port.HTTPPort = 0
	assert.Error(t, port.Validate())

	level := base()
	level.LogLevel = "verbose"
	assert.Error(t, level.Validate())

	negative := base()
	negative.RateLimitPerSec = -1
	assert.Error(t, negative.Validate())
}
