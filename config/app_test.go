package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rushteam/admitkit/pipeline"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "eamcet_2024.csv", cfg.Table.Path)
	assert.Equal(t, "admitkit:table", cfg.Table.Key)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "localhost:6379", cfg.Store.Addr)
	assert.Equal(t, "lr", cfg.Classifier.Kind)
	assert.Equal(t, "model.json", cfg.Classifier.Path)
	assert.Equal(t, 5, cfg.Classifier.TimeoutSecs)
	assert.Equal(t, "encoders.yaml", cfg.Encoders.Path)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, 30, cfg.Batch.TimeoutSecs)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
table:
  path: cutoffs.xlsx
  sheet: 2024
store:
  driver: redis
  addr: redis:6379
  ttl_secs: 3600
classifier:
  kind: kserve
  name: admit
  endpoint: http://kserve:8080
  protocol: v1
log:
  level: debug
  format: console
pipeline:
  max_results: 25
metrics:
  enabled: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "admitkit.yaml"), []byte(yaml), 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "cutoffs.xlsx", cfg.Table.Path)
	assert.Equal(t, "2024", cfg.Table.Sheet)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "redis:6379", cfg.Store.Addr)
	assert.Equal(t, 3600, cfg.Store.TTLSecs)
	assert.Equal(t, "kserve", cfg.Classifier.Kind)
	assert.Equal(t, "admit", cfg.Classifier.Name)
	assert.Equal(t, "v1", cfg.Classifier.Protocol)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 25, cfg.Pipeline.MaxResults)
	assert.True(t, cfg.Metrics.Enabled)
	// 未设置的字段仍使用默认值
	assert.Equal(t, 4, cfg.Batch.Concurrency)
}

func TestLoadExplicitPath(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch:\n  concurrency: 16\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Batch.Concurrency)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: redis
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "admitkit.yaml"), []byte(yaml), 0644))

	t.Setenv("ADMITKIT_STORE_DRIVER", "memory")
	t.Setenv("ADMITKIT_LOG_LEVEL", "warn")
	t.Setenv("ADMITKIT_BATCH_CONCURRENCY", "8")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.True(t, zap.L().Core().Enabled(zap.InfoLevel))
	assert.False(t, zap.L().Core().Enabled(zap.DebugLevel))
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	Register("", nil)
	Register("test.noop", func(map[string]interface{}) (pipeline.Node, error) { return nil, nil })
	assert.Contains(t, SupportedTypes(), "test.noop")

	cfg, err := pipeline.ParseYAML([]byte(`
pipeline:
  nodes:
    - type: test.noop
    - type: test.missing
`))
	require.NoError(t, err)
	err = ValidatePipelineConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.missing")

	assert.NoError(t, ValidatePipelineConfig(nil))
	_, err = BuildPipeline(nil)
	assert.Error(t, err)
}
