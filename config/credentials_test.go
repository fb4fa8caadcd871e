package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"doorlock-remote/config"
	"doorlock-remote/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestCredentialStore_DefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doorlock", "settings.yaml")
	store, err := config.OpenCredentialStore(path, config.CredentialConfig{DeviceHost: "10.0.0.2"})
	require.NoError(t, err)

	require.Equal(t, config.CredentialConfig{DeviceHost: "10.0.0.2"}, store.Get())
	_, err = os.Stat(path)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCredentialStore_UpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doorlock", "settings.yaml")
	store, err := config.OpenCredentialStore(path, config.CredentialConfig{DeviceHost: "10.0.0.2"})
	require.NoError(t, err)

	got, err := store.Update(config.CredentialUpdate{APIKey: strPtr("  AIzaSyExample123456  "), DeviceHost: strPtr("192.168.4.1")})
	require.NoError(t, err)
	require.Equal(t, "AIzaSyExample123456", got.APIKey)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := config.OpenCredentialStore(path, config.CredentialConfig{DeviceHost: "ignored"})
	require.NoError(t, err)
	require.Equal(t, config.CredentialConfig{APIKey: "AIzaSyExample123456", DeviceHost: "192.168.4.1"}, reopened.Get())
}

func TestCredentialStore_EmptyKeyNotSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	store, err := config.OpenCredentialStore(path, config.CredentialConfig{})
	require.NoError(t, err)

	_, err = store.Update(config.CredentialUpdate{APIKey: strPtr("first-key")})
	require.NoError(t, err)

	_, err = store.Update(config.CredentialUpdate{APIKey: strPtr("   "), DeviceHost: strPtr("10.1.1.1")})
	require.ErrorIs(t, err, domain.ErrValidation)

	require.Equal(t, config.CredentialConfig{APIKey: "first-key"}, store.Get())

	reopened, err := config.OpenCredentialStore(path, config.CredentialConfig{})
	require.NoError(t, err)
	require.Equal(t, "first-key", reopened.Get().APIKey)
	require.Empty(t, reopened.Get().DeviceHost)
}

func TestCredentialConfig_Redacted(t *testing.T) {
	require.Equal(t, "", config.CredentialConfig{}.Redacted())
	require.Equal(t, "*****", config.CredentialConfig{APIKey: "short"}.Redacted())
	require.Equal(t, "AIza*****3456", config.CredentialConfig{APIKey: "AIzaSyExa3456"}.Redacted())
}
