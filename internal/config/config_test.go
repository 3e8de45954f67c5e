package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "marketly", cfg.Database.Database)
	assert.Equal(t, "@every 14m", cfg.KeepAlive.Schedule)
	assert.Equal(t, "log", cfg.Notify.Provider)
	assert.InDelta(t, 0.1, cfg.Jobs.CommissionRate, 1e-9)
}

func TestLoad_RejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestGetEnvAsSlice_TrimsEntries(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://shop.example.com, ,https://admin.example.com ")

	got := getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, got)
}

func TestGetEnvAsDuration_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("SEO_CACHE_TTL", "soon")

	assert.Equal(t, 10*time.Minute, loadSEOConfig().CacheTTL)
}
