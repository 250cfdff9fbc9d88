// Package web implements a read-only notebook store over http(s) URLs.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/notemill/pkg/domain"
)

// ErrReadOnly is returned when attempting to store through the web adapter.
var ErrReadOnly = errors.New("http notebook references are read-only")

// Store fetches notebooks over HTTP. Writing is not supported.
type Store struct {
	client *http.Client
}

// New creates a web store with a bounded request timeout.
func New() *Store {
	return &Store{client: &http.Client{Timeout: 30 * time.Second}}
}

// NewFromClient creates a web store over an existing client, used in tests.
func NewFromClient(client *http.Client) *Store {
	return &Store{client: client}
}

// Load fetches and decodes the notebook at url.
func (s *Store) Load(ctx context.Context, url string) (*domain.Notebook, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build notebook request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notebook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch notebook %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook body: %w", err)
	}

	var nb domain.Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("failed to decode notebook %s: %w", url, err)
	}
	return &nb, nil
}

// Store always fails: web references cannot be written back.
func (s *Store) Store(ctx context.Context, nb *domain.Notebook, url string) error {
	if url == "" {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrReadOnly, url)
}
