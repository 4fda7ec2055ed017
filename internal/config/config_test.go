package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalerrors "github.com/Schera-ole/empstatus/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"CONFIG", "ADDRESS", "DATABASE_DSN", "API_TOKEN", "AUDIT_FILE",
		"MIGRATIONS_PATH", "CACHE_TTL_SECONDS", "LOG_TO_DB"} {
		t.Setenv(name, "")
	}
}

func TestParseServerConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseServerConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.Address)
	assert.Equal(t, 60, cfg.CacheTTLSeconds)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.True(t, cfg.LogToDB)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Empty(t, cfg.APIToken)
}

func TestParseServerConfig_FlagsAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_TOKEN", "from-env")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("LOG_TO_DB", "false")

	cfg, err := ParseServerConfig([]string{"-a", ":9090", "-t", "from-flag", "-ttl", "30", "-d", "postgres://x"})
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, "from-env", cfg.APIToken)
	assert.Equal(t, 5, cfg.CacheTTLSeconds)
	assert.False(t, cfg.LogToDB)
	assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
}

func TestParseServerConfig_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"address": ":7070", "api_token": "file-token", "cache_ttl_seconds": 10, "log_to_db": false}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := ParseServerConfig([]string{"-c", path, "-ttl", "20"})
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Address)
	assert.Equal(t, "file-token", cfg.APIToken)
	assert.Equal(t, 20, cfg.CacheTTLSeconds)
	assert.False(t, cfg.LogToDB)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
}

func TestParseServerConfig_Errors(t *testing.T) {
	clearEnv(t)

	_, err := ParseServerConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)

	t.Setenv("CACHE_TTL_SECONDS", "soon")
	_, err = ParseServerConfig(nil)
	assert.Error(t, err)

	t.Setenv("CACHE_TTL_SECONDS", "")
	t.Setenv("LOG_TO_DB", "maybe")
	_, err = ParseServerConfig(nil)
	assert.Error(t, err)
}

func TestServerConfig_Validate(t *testing.T) {
	cfg := defaultServerConfig()
	assert.ErrorIs(t, cfg.Validate(), internalerrors.ErrMissingAPIToken)

	cfg.APIToken = "secret123"
	assert.NoError(t, cfg.Validate())

	cfg.CacheTTLSeconds = -1
	assert.Error(t, cfg.Validate())

	cfg.CacheTTLSeconds = 0
	cfg.Address = ""
	assert.Error(t, cfg.Validate())
}
