package save

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONStore keeps progress in a single indented JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by path. The file is created on the first save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *JSONStore) Path() string { return s.path }

// Load reads progress from disk. A missing or corrupt file yields the
// defaults without an error.
func (s *JSONStore) Load(ctx context.Context) (Progress, error) {
	if err := ctx.Err(); err != nil {
		return NewDefault(), err
	}

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return NewDefault(), fmt.Errorf("open save file: %w", err)
	}
	defer file.Close()

	p := NewDefault()
	if err := json.NewDecoder(file).Decode(&p); err != nil {
		return NewDefault(), nil
	}
	return p.Normalize(), nil
}

// Save writes progress to disk, creating the parent directory if needed.
func (s *JSONStore) Save(ctx context.Context, p Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create save directory: %w", err)
		}
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create save file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(p.Normalize()); err != nil {
		return fmt.Errorf("write save file: %w", err)
	}
	return nil
}
