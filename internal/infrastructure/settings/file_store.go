// Package settings persists storefront branding as a JSON document on disk.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// FileStore reads and writes branding to a single JSON file. A missing file
// yields the default branding. Writes go to a temp file and are renamed into
// place so readers never see a partial document.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (domain.Branding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.DefaultBranding(), nil
	}
	if err != nil {
		return domain.Branding{}, fmt.Errorf("read branding: %w", err)
	}

	b := domain.DefaultBranding()
	if err := json.Unmarshal(raw, &b); err != nil {
		return domain.Branding{}, fmt.Errorf("decode branding: %w", err)
	}
	return b, nil
}

func (s *FileStore) Save(_ context.Context, b domain.Branding) error {
	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encode branding: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".branding-*.json")
	if err != nil {
		return fmt.Errorf("write branding: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write branding: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write branding: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write branding: %w", err)
	}
	return nil
}
