// Package store is a small JSON document store: named values persisted in a
// single file. It backs the settings, translation cache, cache stats, and
// error history.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store holds named JSON values and persists them to one file.
// All methods are safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// Open loads the store file at path, creating an empty store when the file
// does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: make(map[string]json.RawMessage)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse store: %w", err)
	}
	return s, nil
}

// Get unmarshals the value stored under key into v. The second return is
// false when the key is absent.
func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores v under key and persists the whole document synchronously.
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.save()
}

// SetAll stores several values, persisting once.
func (s *Store) SetAll(values map[string]any) error {
	encoded := make(map[string]json.RawMessage, len(values))
	for key, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		encoded[key] = raw
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, raw := range encoded {
		s.data[key] = raw
	}
	return s.save()
}

// save writes the document atomically: temp file in the same directory,
// then rename. Callers must hold s.mu.
func (s *Store) save() error {
	out, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".store-*")
	if err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}
