package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PRIVATE_KEY", "pem")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/store")
	t.Setenv("SCHEME", "")
	t.Setenv("HOST", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("AUTH_BCRYPT_COST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/store", cfg.Postgres.DSN)
	assert.Equal(t, "http://localhost:3000/api", cfg.Auth.Issuer())
	assert.Equal(t, 120, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PRIVATE_KEY", "pem")
	t.Setenv("SCHEME", "https")
	t.Setenv("HOST", "shop.example.com")
	t.Setenv("APP_HOST", "")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_PRODUCT_TTL_SECONDS", "60")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/api", cfg.Auth.Issuer())
	assert.Equal(t, time.Minute, cfg.Redis.ProductTTL())
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
}

func TestLoadRequiresPrivateKey(t *testing.T) {
	t.Setenv("PRIVATE_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CFG_INT", "notanumber")
	t.Setenv("CFG_BOOL", "yes-please")

	assert.Equal(t, 7, getEnvAsInt("CFG_INT", 7))
	assert.True(t, getEnvAsBool("CFG_BOOL", true))
	assert.Equal(t, "fallback", getEnv("CFG_MISSING_KEY", "fallback"))
}
