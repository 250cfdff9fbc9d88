// Package file implements a notebook store over the local filesystem.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/notemill/internal/retry"
	"github.com/aretw0/notemill/pkg/domain"
)

// Store reads and writes ipynb files on the local filesystem.
type Store struct {
	retryConfig retry.Config
}

// New creates a filesystem notebook store.
func New() *Store {
	return &Store{retryConfig: retry.DefaultConfig()}
}

// Load reads and decodes the notebook at path.
func (s *Store) Load(ctx context.Context, path string) (*domain.Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}

	var nb domain.Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("failed to decode notebook %s: %w", path, err)
	}
	return &nb, nil
}

// Store encodes and writes the notebook to path, creating parent directories
// as needed. Writes are retried with backoff to ride out transient filesystem
// failures (network mounts, concurrent readers on some platforms).
func (s *Store) Store(ctx context.Context, nb *domain.Notebook, path string) error {
	if path == "" {
		return nil
	}

	data, err := json.MarshalIndent(nb, "", " ")
	if err != nil {
		return fmt.Errorf("failed to encode notebook: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to ensure output directory: %w", err)
		}
	}

	return retry.Do(ctx, s.retryConfig, func() error {
		return os.WriteFile(path, data, 0o644)
	})
}
