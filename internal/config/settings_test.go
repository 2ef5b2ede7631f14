package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyEnv returns an existing .env file with no variables.
func emptyEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

func TestLoadSettings_Defaults(t *testing.T) {
	for _, key := range []string{"FORECAST_LOG_LEVEL", "FORECAST_ENV", "FORECAST_OUTPUT_DIR", "FORECAST_PRECISION"} {
		t.Setenv(key, "")
	}

	s, err := LoadSettings(emptyEnv(t))
	require.NoError(t, err)
	assert.Equal(t, &Settings{LogLevel: "info", Environment: "development", OutputDir: ".", Precision: 2}, s)
}

func TestLoadSettings_FromEnv(t *testing.T) {
	t.Setenv("FORECAST_LOG_LEVEL", "DEBUG")
	t.Setenv("FORECAST_ENV", "production")
	t.Setenv("FORECAST_OUTPUT_DIR", "/tmp/forecasts")
	t.Setenv("FORECAST_PRECISION", "4")

	s, err := LoadSettings(emptyEnv(t))
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "production", s.Environment)
	assert.Equal(t, "/tmp/forecasts", s.OutputDir)
	assert.Equal(t, 4, s.Precision)
}

func TestLoadSettings_DotEnvFile(t *testing.T) {
	t.Setenv("FORECAST_LOG_LEVEL", "")
	t.Setenv("FORECAST_PRECISION", "")
	require.NoError(t, os.Unsetenv("FORECAST_LOG_LEVEL"))
	require.NoError(t, os.Unsetenv("FORECAST_PRECISION"))

	path := filepath.Join(t.TempDir(), "forecast.env")
	require.NoError(t, os.WriteFile(path, []byte("FORECAST_LOG_LEVEL=warn\nFORECAST_PRECISION=0\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("FORECAST_LOG_LEVEL")
		os.Unsetenv("FORECAST_PRECISION")
	})

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, 0, s.Precision)
}

func TestLoadSettings_InvalidPrecision(t *testing.T) {
	t.Setenv("FORECAST_PRECISION", "many")
	_, err := LoadSettings(emptyEnv(t))
	assert.ErrorContains(t, err, "FORECAST_PRECISION")

	t.Setenv("FORECAST_PRECISION", "42")
	_, err = LoadSettings(emptyEnv(t))
	assert.Error(t, err)
}

func TestLoadSettings_EnvFileErrors(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, "env file")

	bad := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("FORECAST_LOG_LEVEL='unterminated\n"), 0o644))
	_, err = LoadSettings(bad)
	assert.ErrorContains(t, err, "env file")
}

func TestLoadSettings_MissingDefaultEnv(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("FORECAST_PRECISION", "")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 2, s.Precision)
}
