package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/config"
)

const sample = `
[storage]
endpoint = "https://s3.example.com"
region = "eu-central-1"
bucket = "my-archives"
access_key_id = "file-access"
secret_access_key = "file-secret"

[safety]
safe = ["my-tool", "another"]
needs_review = ["precious"]

[cache]
min_size_gb = 2.5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromParsesAllSections(t *testing.T) {
	cfg, err := config.LoadFrom(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "https://s3.example.com", cfg.Storage.Endpoint)
	assert.Equal(t, "eu-central-1", cfg.Storage.Region)
	assert.Equal(t, "my-archives", cfg.Storage.Bucket)
	assert.Equal(t, []string{"my-tool", "another"}, cfg.Safety.Safe)
	assert.Equal(t, 2.5, cfg.Cache.MinSizeGB)
}

func TestLoadFromMissingFileIsZeroConfig(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg)
}

func TestLoadFromMalformedFileFails(t *testing.T) {
	_, err := config.LoadFrom(writeConfig(t, "[storage\nbucket="))
	assert.Error(t, err)
}

func TestSafetyOverrides(t *testing.T) {
	cfg, err := config.LoadFrom(writeConfig(t, sample))
	require.NoError(t, err)

	overrides := cfg.SafetyOverrides()
	assert.Equal(t, map[string]cleaner.SafetyTier{
		"my-tool":  cleaner.Safe,
		"another":  cleaner.Safe,
		"precious": cleaner.NeedsReview,
	}, overrides)
}

func TestSafetyOverridesNeedsReviewWins(t *testing.T) {
	cfg := &config.Config{}
	cfg.Safety.Safe = []string{"both"}
	cfg.Safety.NeedsReview = []string{"both"}

	assert.Equal(t, cleaner.NeedsReview, cfg.SafetyOverrides()["both"])
}

func TestSafetyOverridesEmptyIsNil(t *testing.T) {
	assert.Nil(t, (&config.Config{}).SafetyOverrides())
}

func TestCacheMinSize(t *testing.T) {
	cfg := &config.Config{}
	assert.Equal(t, int64(1<<30), cfg.CacheMinSize(1<<30))

	cfg.Cache.MinSizeGB = 2
	assert.Equal(t, int64(2<<30), cfg.CacheMinSize(1<<30))
}

func TestCredentialsEnvWinsOverFile(t *testing.T) {
	cfg, err := config.LoadFrom(writeConfig(t, sample))
	require.NoError(t, err)

	t.Setenv("SOUJI_ACCESS_KEY_ID", "")
	t.Setenv("SOUJI_SECRET_ACCESS_KEY", "")
	access, secret := cfg.Credentials()
	assert.Equal(t, "file-access", access)
	assert.Equal(t, "file-secret", secret)

	t.Setenv("SOUJI_ACCESS_KEY_ID", "env-access")
	t.Setenv("SOUJI_SECRET_ACCESS_KEY", "env-secret")
	access, secret = cfg.Credentials()
	assert.Equal(t, "env-access", access)
	assert.Equal(t, "env-secret", secret)
}
