package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yml"))

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, StorageMySQL, env.Storage)
	assert.Equal(t, "3306", env.DB.Port)
	assert.Equal(t, 240*time.Hour, env.JWTTTL)
	assert.NotEmpty(t, env.CORSOrigins)
}

func TestLoadEnv_FileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	body := []byte(`
app_addr: ":9090"
storage_driver: memory
jwt_secret: "file-secret-0123456789"
jwt_ttl: 2h
database:
  host: db.internal
  name: seats
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_ADDR", ":7070")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ":7070", env.AppAddr)
	assert.Equal(t, StorageMemory, env.Storage)
	assert.Equal(t, "db.internal", env.DB.Host)
	assert.Equal(t, 2*time.Hour, env.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.CORSOrigins)
}

func TestLoadEnv_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := LoadEnv()
	assert.Error(t, err)
}

func TestLoadEnv_ReleaseNeedsSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("GIN_MODE", "release")

	_, err := LoadEnv()
	assert.Error(t, err)
}

func TestDBConfigDSN(t *testing.T) {
	dsn := DBConfig{Host: "127.0.0.1", Port: "3306", User: "root", Name: "bus_reservation"}.DSN()
	assert.Contains(t, dsn, "root@tcp(127.0.0.1:3306)/bus_reservation")
	assert.Contains(t, dsn, "parseTime=true")
}
