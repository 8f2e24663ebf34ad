package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "bi_mx", cfg.Mongo.Database)
	assert.Equal(t, []string{"listings", "reviews", "calendar"}, cfg.Mongo.Collections.All())
	assert.Equal(t, "listings_analitica", cfg.Output.Table)
	assert.Equal(t, MaxExcelRows-1, cfg.Output.MaxSheetRows)
	assert.Equal(t, 15000, cfg.Transform.ReviewSample)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "etl.yaml")
	content := []byte(`
mongo:
  database: staging
output:
  dir: /tmp/etl-out
  max_sheet_rows: 100
transform:
  review_sample: 50
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Mongo.Database)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, 100, cfg.Output.MaxSheetRows)
	assert.Equal(t, 50, cfg.Transform.ReviewSample)
	assert.Equal(t, filepath.Join("/tmp/etl-out", "bi_mx.db"), cfg.Output.SQLitePath())
	assert.Equal(t, filepath.Join("/tmp/etl-out", "datos_limpios.xlsx"), cfg.Output.WorkbookPath())
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("ETL_MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("ETL_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db.internal:27017", cfg.Mongo.URI)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "etl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mongo: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg.Logging.Level = "warn"
	cfg.Output.MaxSheetRows = 0
	assert.Error(t, cfg.Validate())
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Logging.Dir = filepath.Join(dir, "logs")

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Output.Dir)
	assert.DirExists(t, cfg.Logging.Dir)
}
