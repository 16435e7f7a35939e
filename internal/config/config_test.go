package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "3000"
  cors_origins: ["https://myprompt.app"]
database:
  url: postgres://file/db
auth:
  admin_emails: ["ops@myprompt.app"]
analytics:
  aggregate_hour_utc: 3
`), 0o600))
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PORT", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	// Env wins over the file.
	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, []string{"https://myprompt.app"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 3, cfg.Analytics.AggregateHourUTC)

	assert.True(t, cfg.IsAdmin("ops@myprompt.app"))
	assert.False(t, cfg.IsAdmin("someone@elsewhere.dev"))
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database url")
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
}
