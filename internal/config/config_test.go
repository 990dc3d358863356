package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "digitize.db", cfg.Store.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, int64(8192), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 25, cfg.Extract.MaxPagesPerBatch)
	assert.Equal(t, 3, cfg.Extract.RetryLimit)
	assert.Equal(t, 180, cfg.Extract.TimeoutSecs)
	assert.Equal(t, 30, cfg.Extract.RequestsPerMinute)
	assert.Equal(t, 168, cfg.Extract.CacheTTLHours)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrentDocuments)
	assert.InDelta(t, 0.25, cfg.Scorer.WeightSubmitterSpouse, 0.001)
	assert.InDelta(t, 0.30, cfg.Scorer.WeightStatements, 0.001)
	assert.InDelta(t, 0.30, cfg.Scorer.WeightAssets, 0.001)
	assert.InDelta(t, 0.15, cfg.Scorer.WeightRelatives, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/nacc
log:
  level: debug
  format: console
server:
  port: 9090
batch:
  max_concurrent_documents: 8
extract:
  max_pages_per_batch: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/nacc", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Batch.MaxConcurrentDocuments)
	assert.Equal(t, 10, cfg.Extract.MaxPagesPerBatch)
	// Defaults still apply for unset values
	assert.Equal(t, 3, cfg.Extract.RetryLimit)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("NACC_STORE_DRIVER", "postgres")
	t.Setenv("NACC_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("NACC_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config that passes Validate, for mutation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.SQLitePath = "test.db"
	cfg.Extract.MaxPagesPerBatch = 25
	cfg.Scorer.WeightSubmitterSpouse = 0.25
	cfg.Scorer.WeightStatements = 0.30
	cfg.Scorer.WeightAssets = 0.30
	cfg.Scorer.WeightRelatives = 0.15
	return cfg
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidateSQLiteNeedsPath(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.SQLitePath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite_path")
}

func TestValidatePostgresNeedsURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "postgres"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")

	cfg.Store.DatabaseURL = "postgres://localhost/nacc"
	assert.NoError(t, cfg.Validate())
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "oracle"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestValidateBatchSize(t *testing.T) {
	cfg := validDefaults()
	cfg.Extract.MaxPagesPerBatch = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_pages_per_batch")
}

func TestValidateWeightsMustSumToOne(t *testing.T) {
	cfg := validDefaults()
	cfg.Scorer.WeightAssets = 0.50

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1.0")
}
