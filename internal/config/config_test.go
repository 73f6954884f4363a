package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "storage:\n  bucket: evidence\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "study-photos", cfg.Storage.KeyPrefix)
	assert.EqualValues(t, 5<<20, cfg.Storage.MaxUploadBytes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  driver: postgres
  host: db
log:
  level: debug
`)
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/study")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@localhost:5432/study", cfg.Database.DSN())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "key", cfg.Storage.AccessKey)
	assert.Equal(t, "secret", cfg.Storage.SecretKey)
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		_, err := Load(writeConfig(t, "database:\n  driver: mysql\n"))
		assert.ErrorContains(t, err, "unsupported database driver")
	})
	t.Run("bad PORT", func(t *testing.T) {
		t.Setenv("PORT", "eighty")
		_, err := Load(writeConfig(t, ""))
		assert.ErrorContains(t, err, "invalid PORT")
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server: [\n"))
		assert.ErrorContains(t, err, "failed to parse config file")
	})
}

func TestDSNFromFields(t *testing.T) {
	db := DatabaseConfig{Host: "localhost", Port: 5432, User: "app", Password: "pw", DBName: "study", SSLMode: "disable"}
	assert.Equal(t, "host=localhost port=5432 user=app password=pw dbname=study sslmode=disable", db.DSN())
}

func TestPublicURL(t *testing.T) {
	s := StorageConfig{Bucket: "evidence", Region: "eu-west-1"}
	assert.Equal(t, "https://evidence.s3.eu-west-1.amazonaws.com/study-photos/a.png", s.PublicURL("study-photos/a.png"))

	s.PublicBaseURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/study-photos/a.png", s.PublicURL("study-photos/a.png"))
}
