package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store reads and writes the config file.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore returns the store for the user's config file, honouring the
// HOTMOUSE_CONFIG override.
func DefaultStore() (*Store, error) {
	path, err := resolvePath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

// Path returns the full path to the config file
func (s *Store) Path() string {
	return s.path
}

// MetricsDir returns the metrics directory next to the config file
func (s *Store) MetricsDir() string {
	return filepath.Join(filepath.Dir(s.path), metricsSubDir)
}

// ReadRaw returns the config document as stored. It returns nil and no
// error if the file does not exist.
func (s *Store) ReadRaw() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", s.path, err)
	}
	return data, nil
}

// WriteRaw replaces the config document.
func (s *Store) WriteRaw(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write with user-only permissions
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", s.path, err)
	}
	return nil
}

// Load loads configuration from file. A missing file yields the defaults.
func (s *Store) Load() (*Config, error) {
	data, err := s.ReadRaw()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return DefaultConfig(), nil
	}
	return Parse(data)
}

// Save writes the configuration with every chord sorted.
func (s *Store) Save(cfg *Config) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // keep "<none>" readable
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg.normalized()); err != nil {
		return err
	}
	return s.WriteRaw(buf.Bytes())
}
