package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend.local:3000")
	t.Setenv("JWT_SECRET_KEY", "segredo-de-teste")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 2, cfg.SearchMinChars)
	assert.Equal(t, 20, cfg.SearchMaxResults)
	assert.Equal(t, 2*time.Hour, cfg.DraftIdleTTL)
	assert.False(t, cfg.JournalEnabled())
	assert.False(t, cfg.CacheEnabled())
	assert.Equal(t, ":8080", cfg.Address())
}

func TestLoadConfig_Fail_MissingBackend(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("JWT_SECRET_KEY", "x")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestLoadConfig_Fail_NonPositiveDebounce(t *testing.T) {
	setRequired(t)
	t.Setenv("SEARCH_DEBOUNCE", "0s")

	_, err := LoadConfig()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SEARCH_DEBOUNCE")
}

func TestLoadConfig_OptionalInfra(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/console?sslmode=disable")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.True(t, cfg.JournalEnabled())
	assert.True(t, cfg.CacheEnabled())
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/console?sslmode=disable")

	cfg, err := LoadDatabaseConfig()

	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost/console?sslmode=disable", cfg.DatabaseURL)
}

func TestLoadDatabaseConfig_Fail_Missing(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := LoadDatabaseConfig()

	assert.Error(t, err)
}
