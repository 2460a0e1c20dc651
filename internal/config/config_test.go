package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
}

func TestLoad_DomainGroups(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Filesystem")
	t.Setenv("STORAGE_ROOT", "/var/lib/docissuer")
	t.Setenv("NUMBERING_BACKEND", "redis")
	t.Setenv("NUMBERING_MAX_ATTEMPTS", "8")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("RENDER_ISSUER_NAME", "Northwind Institute")
	t.Setenv("RENDER_LOCALE", "de-DE")

	cfg := Load()

	assert.Equal(t, "filesystem", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/docissuer", cfg.Storage.Root)
	assert.Equal(t, "redis", cfg.Numbering.Backend)
	assert.Equal(t, 8, cfg.Numbering.MaxAttempts)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "docissuer:seq:", cfg.Redis.KeyPrefix)
	assert.Equal(t, "Northwind Institute", cfg.Render.IssuerName)
	assert.Equal(t, "de-DE", cfg.Render.Locale)
	assert.Equal(t, "$", cfg.Render.CurrencySymbol)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *AppConfig {
		return &AppConfig{
			Storage:   StorageConfig{Backend: "minio"},
			Numbering: NumberingConfig{Backend: "postgres", MaxAttempts: 5},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.Storage.Backend = "s3"
	assert.ErrorContains(t, cfg.Validate(), "STORAGE_BACKEND")

	cfg = base()
	cfg.Numbering.Backend = "etcd"
	assert.ErrorContains(t, cfg.Validate(), "NUMBERING_BACKEND")

	cfg = base()
	cfg.Numbering.MaxAttempts = 0
	assert.ErrorContains(t, cfg.Validate(), "NUMBERING_MAX_ATTEMPTS")
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
