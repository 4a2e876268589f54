package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "analysis:\n  workers: 4\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, 3600, cfg.Provider.CacheTTLSeconds)
	assert.Equal(t, "trapmap.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TRAPMAP_DSN", "/tmp/override.db")

	cfg, err := Load(writeConfig(t, "log:\n  level: info\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/override.db", cfg.Storage.DSN)
}

func TestEngineConfigOverridesOnlySetFields(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
analysis:
  warning_ratio_threshold: 0.7
  overround_limit: 1.25
`))
	require.NoError(t, err)

	ecfg := cfg.EngineConfig()
	assert.InDelta(t, 0.7, ecfg.WarningRatioThreshold, 0.001)
	assert.InDelta(t, 1.25, ecfg.Detect.OverroundLimit, 0.001)

	// Los campos no presentes conservan los defaults del motor.
	assert.InDelta(t, 1.0, ecfg.WarningScoreThreshold, 0.001)
	assert.Equal(t, 3, ecfg.MaxSafeMarkets)
}
