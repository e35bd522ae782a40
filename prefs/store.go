// Package prefs is the small local key/value preference file: the recent
// logo list and the theme choice live here.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Store persists preferences as YAML. A Store with an empty path keeps values
// in memory only, like a browser with storage disabled.
type Store struct {
	mu   sync.Mutex
	path string
	k    *koanf.Koanf
}

// Open loads the preference file at path. A missing file is not an error.
func Open(path string) (*Store, error) {
	s := &Store{path: path, k: koanf.New(".")}
	if path == "" {
		return s, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err := s.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("prefs: load %s: %w", path, err)
	}
	return s, nil
}

// Memory returns a store that never touches disk.
func Memory() *Store {
	s, _ := Open("")
	return s
}

// String returns the value at key.
func (s *Store) String(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.k.Exists(key) {
		return "", false
	}
	return s.k.String(key), true
}

// Bool returns the boolean at key.
func (s *Store) Bool(key string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.k.Exists(key) {
		return false, false
	}
	return s.k.Bool(key), true
}

// Unmarshal decodes the subtree at key into out.
func (s *Store) Unmarshal(key string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.k.Unmarshal(key, out); err != nil {
		return fmt.Errorf("prefs: read %s: %w", key, err)
	}
	return nil
}

// Set stores value at key and writes the file.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.k.Set(key, value); err != nil {
		return fmt.Errorf("prefs: set %s: %w", key, err)
	}
	return s.flush()
}

// Delete removes key and writes the file.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.k.Delete(key)
	return s.flush()
}

func (s *Store) flush() error {
	if s.path == "" {
		return nil
	}
	data, err := s.k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("prefs: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("prefs: write: %w", err)
	}
	return nil
}
