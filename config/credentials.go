package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"doorlock-remote/internal/domain"
)

// CredentialConfig is the only state persisted between runs: the cloud API
// key and the last used door controller address.
type CredentialConfig struct {
	APIKey     string `yaml:"api_key"`
	DeviceHost string `yaml:"device_host"`
}

// Redacted returns the API key masked for display.
func (c CredentialConfig) Redacted() string {
	switch n := len(c.APIKey); {
	case n == 0:
		return ""
	case n <= 8:
		return strings.Repeat("*", n)
	default:
		return c.APIKey[:4] + strings.Repeat("*", n-8) + c.APIKey[n-4:]
	}
}

// CredentialUpdate names the fields to change; nil fields are left alone.
type CredentialUpdate struct {
	APIKey     *string
	DeviceHost *string
}

// CredentialStore loads CredentialConfig at start and persists every
// accepted update.
type CredentialStore struct {
	path string

	mu      sync.RWMutex
	current CredentialConfig
}

// DefaultCredentialPath is $XDG_CONFIG_HOME/doorlock/settings.yaml.
func DefaultCredentialPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "doorlock", "settings.yaml"), nil
}

// OpenCredentialStore reads the settings file at path if it exists. Values
// missing from the file fall back to defaults.
func OpenCredentialStore(path string, defaults CredentialConfig) (*CredentialStore, error) {
	s := &CredentialStore{path: path, current: defaults}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var saved CredentialConfig
	if err := yaml.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if v := strings.TrimSpace(saved.APIKey); v != "" {
		s.current.APIKey = v
	}
	if v := strings.TrimSpace(saved.DeviceHost); v != "" {
		s.current.DeviceHost = v
	}
	return s, nil
}

func (s *CredentialStore) Path() string {
	return s.path
}

func (s *CredentialStore) Get() CredentialConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies u and writes the result. An empty API key or host is
// rejected and nothing is saved.
func (s *CredentialStore) Update(u CredentialUpdate) (CredentialConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	if u.APIKey != nil {
		key := strings.TrimSpace(*u.APIKey)
		if key == "" {
			return s.current, domain.Validation("API key cannot be empty")
		}
		next.APIKey = key
	}
	if u.DeviceHost != nil {
		host := strings.TrimSpace(*u.DeviceHost)
		if host == "" {
			return s.current, domain.Validation("Please enter server IP address")
		}
		next.DeviceHost = host
	}

	if err := s.write(next); err != nil {
		return s.current, err
	}
	s.current = next
	return next, nil
}

func (s *CredentialStore) write(cfg CredentialConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp settings: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod settings: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing settings: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
