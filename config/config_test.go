package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"doorlock-remote/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Device.Port)
	require.Equal(t, 10*time.Second, cfg.Device.SimpleTimeout)
	require.Equal(t, 30*time.Second, cfg.Device.JSONTimeout)
	require.Equal(t, "https://generativelanguage.googleapis.com/v1", cfg.Cloud.BaseURL)
	require.Equal(t, "gemini-2.5-flash", cfg.Cloud.Model)
	require.Equal(t, "rest", cfg.Cloud.Backend)
	require.Equal(t, 60*time.Second, cfg.Cloud.Timeout)
	require.InDelta(t, 0.3, *cfg.Cloud.Temperature, 0.0001)
	require.Equal(t, 50, cfg.Cloud.MaxOutputTokens)
	require.Equal(t, 44100, cfg.Audio.SampleRate)
	require.Equal(t, 30*time.Second, cfg.Audio.MaxDuration)
	require.Equal(t, "info", cfg.Log.Level)
	require.Empty(t, cfg.Cloud.APIKey)
}

func TestLoad_FileWithEnv(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "from-env")

	path := writeConfig(t, `
device:
  host: 192.168.1.50
  port: 9090
  simple_timeout: 5s
cloud:
  api_key: ${TEST_GEMINI_KEY}
  backend: sdk
  temperature: 0
audio:
  backend: file
  file: ./clips/unlock.m4a
  max_duration: 12s
log:
  level: debug
  format: json
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "192.168.1.50", cfg.Device.Host)
	require.Equal(t, 9090, cfg.Device.Port)
	require.Equal(t, 5*time.Second, cfg.Device.SimpleTimeout)
	require.Equal(t, "from-env", cfg.Cloud.APIKey)
	require.Equal(t, "sdk", cfg.Cloud.Backend)
	require.Equal(t, float32(0), *cfg.Cloud.Temperature)
	require.Equal(t, "file", cfg.Audio.Backend)
	require.Equal(t, 12*time.Second, cfg.Audio.MaxDuration)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `
cloud:
  backend: grpc
audio:
  backend: tape
`)
	_, err := config.Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cloud.backend")
	require.Contains(t, err.Error(), "audio.backend")

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
