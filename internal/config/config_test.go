package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfigs creates a temporary directory structure for testing.
// It returns the temporary root directory and a cleanup function.
func setupTestConfigs(t *testing.T) (string, func()) {
	configDir, err := os.MkdirTemp("", "config_test_")
	assert.NoError(t, err)

	// Viper requires a "configs" subdirectory to be present.
	actualConfigPath := filepath.Join(configDir, "configs")
	err = os.Mkdir(actualConfigPath, 0755)
	assert.NoError(t, err)

	// Change working directory to the parent of "configs"
	oldWd, err := os.Getwd()
	assert.NoError(t, err)
	err = os.Chdir(configDir)
	assert.NoError(t, err)

	cleanup := func() {
		os.Chdir(oldWd)
		os.RemoveAll(configDir)
	}

	return actualConfigPath, cleanup
}

func TestLoadConfig_Success(t *testing.T) {
	actualConfigPath, cleanup := setupTestConfigs(t)
	defer cleanup()

	configContent := `
log:
  level: "debug"
merge:
  lossy: true
  jobs: 8
`
	configFile := filepath.Join(actualConfigPath, "lcovkit.yaml")
	err := os.WriteFile(configFile, []byte(configContent), 0644)
	assert.NoError(t, err)

	loadedCfg, err := LoadConfig("")
	assert.NoError(t, err)
	assert.Equal(t, "debug", loadedCfg.Log.Level)
	assert.True(t, loadedCfg.Merge.Lossy)
	assert.Equal(t, 8, loadedCfg.Merge.Jobs)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	actualConfigPath, cleanup := setupTestConfigs(t)
	defer cleanup()

	emptyConfigFile := filepath.Join(actualConfigPath, "empty.yaml")
	err := os.WriteFile(emptyConfigFile, []byte(""), 0644)
	assert.NoError(t, err)

	cfg, err := LoadConfig(emptyConfigFile)
	assert.NoError(t, err) // Viper doesn't error on empty files, defaults apply
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Merge.Jobs)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	actualConfigPath, cleanup := setupTestConfigs(t)
	defer cleanup()

	malformedContent := "log: test\n  level: oops" // Bad indentation
	malformedFile := filepath.Join(actualConfigPath, "lcovkit.yaml")
	err := os.WriteFile(malformedFile, []byte(malformedContent), 0644)
	assert.NoError(t, err)

	// A file that exists but cannot be parsed is an error even when the
	// file was found by searching.
	_, err = LoadConfig("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestRead_Optional(t *testing.T) {
	_, cleanup := setupTestConfigs(t)
	defer cleanup()

	v := newViper("non_existent_config")
	v.SetDefault("merge.jobs", 3)

	var cfg Config
	err := read(v, &cfg, false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	require.NoError(t, read(v, &cfg, true))
	assert.Equal(t, 3, cfg.Merge.Jobs)
}

func TestLoadConfig_Defaults(t *testing.T) {
	_, cleanup := setupTestConfigs(t)
	defer cleanup()

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Log.Color)
	assert.False(t, cfg.Merge.Lossy)
	assert.Equal(t, 4, cfg.Merge.Jobs)
	assert.Equal(t, 0, cfg.Filter.Strip)
	assert.Equal(t, "yaml", cfg.Stats.Format)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	actualConfigPath, cleanup := setupTestConfigs(t)
	defer cleanup()

	configContent := `
log:
  level: "info"
filter:
  strip: 1
  root: "/src"
stats:
  format: "json"
`
	err := os.WriteFile(filepath.Join(actualConfigPath, "lcovkit.yaml"), []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("LCOVKIT_LOG_LEVEL", "error")
	t.Setenv("LCOVKIT_MERGE_JOBS", "0")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 1, cfg.Filter.Strip)
	assert.Equal(t, "/src", cfg.Filter.Root)
	assert.Equal(t, "json", cfg.Stats.Format)
	// Jobs is clamped to at least one.
	assert.Equal(t, 1, cfg.Merge.Jobs)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	_, cleanup := setupTestConfigs(t)
	defer cleanup()

	err := os.WriteFile(".env", []byte("LCOVKIT_MERGE_LOSSY=true\n"), 0644)
	require.NoError(t, err)
	t.Cleanup(func() { os.Unsetenv("LCOVKIT_MERGE_LOSSY") })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.Merge.Lossy)
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	_, cleanup := setupTestConfigs(t)
	defer cleanup()

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("merge:\n  jobs: 2\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Merge.Jobs)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
