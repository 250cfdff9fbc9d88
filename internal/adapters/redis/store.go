// Package redis implements a notebook store backed by Redis, addressed by
// redis://host:port/db/key references.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/notemill/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// ErrNotebookNotFound is returned when no notebook exists under the key.
var ErrNotebookNotFound = errors.New("notebook not found")

// Store implements a notebook store over a Redis client. Keys are namespaced
// under a fixed prefix so notebooks coexist with other tenants of the
// instance.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration for stored notebooks.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for stored notebooks.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store for the given address.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "notemill:notebook:",
		ttl:    0, // no expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(ref string) string {
	return s.prefix + ref
}

// Load retrieves and decodes the notebook stored under ref.
func (s *Store) Load(ctx context.Context, ref string) (*domain.Notebook, error) {
	val, err := s.client.Get(ctx, s.key(ref)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotebookNotFound, ref)
		}
		return nil, fmt.Errorf("failed to get notebook from redis: %w", err)
	}

	var nb domain.Notebook
	if err := json.Unmarshal([]byte(val), &nb); err != nil {
		return nil, fmt.Errorf("failed to decode notebook %s: %w", ref, err)
	}
	return &nb, nil
}

// Store persists the notebook under ref.
func (s *Store) Store(ctx context.Context, nb *domain.Notebook, ref string) error {
	if ref == "" {
		return nil
	}

	data, err := json.Marshal(nb)
	if err != nil {
		return fmt.Errorf("failed to encode notebook: %w", err)
	}
	if err := s.client.Set(ctx, s.key(ref), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save notebook to redis: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
