package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 10, cfg.API.TimeoutSeconds)
	assert.Equal(t, SessionStoreFile, cfg.Session.Store)
	assert.Equal(t, "session.json", cfg.Session.File)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/api/")
	t.Setenv("API_TIMEOUT_SECONDS", "3")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, int64(3), int64(cfg.API.Timeout().Seconds()))
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "relative base url", key: "API_BASE_URL", value: "/api"},
		{name: "non http scheme", key: "API_BASE_URL", value: "ftp://host/api"},
		{name: "zero timeout", key: "API_TIMEOUT_SECONDS", value: "0"},
		{name: "negative timeout", key: "API_TIMEOUT_SECONDS", value: "-5"},
		{name: "unknown store", key: "SESSION_STORE", value: "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_BadIntFallsBackToDefault(t *testing.T) {
	t.Setenv("API_TIMEOUT_SECONDS", "soon")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 10, cfg.API.TimeoutSeconds)
}
