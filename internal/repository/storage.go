// Package repository persists the bot's durable documents as JSON files
// behind narrow interfaces, under a single-writer discipline.
package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type Storage struct {
	mu sync.Mutex
}

func NewStorage() *Storage {
	return &Storage{}
}

func (s *Storage) Read(path string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Missing file is not an error, caller handles initialization
		}
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed to decode json from %s: %w", path, err)
	}
	return nil
}

// Write persists v atomically: encode to a temp file, sync, rename over the
// destination. A crash mid-write never leaves a half-written document.
func (s *Storage) Write(path string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json for %s: %w", path, err)
	}

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file %s: %w", tmp, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write temp file %s: %w", tmp, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync temp file %s: %w", tmp, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close temp file %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (s *Storage) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
