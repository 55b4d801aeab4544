package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadReadsYAMLOverDefaults(t *testing.T) {
	path := writeConfig(t, `
data_dir: /tmp/ff
mode: achievement
session_length: deep-work
timezone: UTC
log:
  level: debug
sync:
  url: https://sync.example.test
  token: secret
  timeout: 3s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/ff", cfg.DataDir)
	require.Equal(t, "achievement", cfg.Mode)
	require.Equal(t, "deep-work", cfg.SessionLength)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 3*time.Second, cfg.Sync.Timeout)
	require.True(t, cfg.SyncEnabled())
	require.Equal(t, filepath.Join("/tmp/ff", "progress.json"), cfg.ProgressPath())
	require.Equal(t, filepath.Join("/tmp/ff", "timer-state.json"), cfg.TimerStatePath())

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "data_dir: /tmp/ff\nmode: zen\n")
	t.Setenv("FOCUSFLOW_MODE", "hybrid")
	t.Setenv("FOCUSFLOW_LOG_LEVEL", "trace")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "hybrid", cfg.Mode)
	require.Equal(t, "trace", cfg.Log.Level)
	require.Equal(t, "quick-focus", cfg.SessionLength)
	require.False(t, cfg.SyncEnabled())
}

func TestValidateRejectsHalfConfiguredSync(t *testing.T) {
	cfg := Defaults()
	cfg.Sync.URL = "https://sync.example.test"
	require.Error(t, cfg.Validate())

	cfg.Sync.Token = "secret"
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownTimezone(t *testing.T) {
	cfg := Defaults()
	cfg.Timezone = "Mars/Olympus_Mons"
	require.Error(t, cfg.Validate())

	cfg.Timezone = "local"
	require.NoError(t, cfg.Validate())
}

func TestLoadFailsOnMalformedFile(t *testing.T) {
	path := writeConfig(t, "mode: [unterminated\n")
	_, err := Load(path)
	require.Error(t, err)
}
