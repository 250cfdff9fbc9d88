// Package iorw routes notebook references to the store adapter that can
// serve them: local paths, "-" for stdio piping, http(s) URLs, and redis
// keys.
package iorw

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/notemill/internal/adapters/file"
	"github.com/aretw0/notemill/internal/adapters/redis"
	"github.com/aretw0/notemill/internal/adapters/stdio"
	"github.com/aretw0/notemill/internal/adapters/web"
	"github.com/aretw0/notemill/pkg/domain"
	"github.com/aretw0/notemill/pkg/ports"
)

// ErrEmptyRef is returned when loading from an empty reference.
var ErrEmptyRef = errors.New("notebook reference is empty")

// Dispatcher implements ports.NotebookStore by dispatching on the reference
// scheme.
type Dispatcher struct {
	file  ports.NotebookStore
	stdio ports.NotebookStore
	web   ports.NotebookStore

	redisMu sync.Mutex
	redis   map[string]*redis.Store
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithStdio overrides the stdio adapter, used in tests to capture streams.
func WithStdio(store ports.NotebookStore) Option {
	return func(d *Dispatcher) {
		d.stdio = store
	}
}

// WithWeb overrides the http adapter.
func WithWeb(store ports.NotebookStore) Option {
	return func(d *Dispatcher) {
		d.web = store
	}
}

// New creates a dispatcher over the default adapters.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		file:  file.New(),
		stdio: stdio.New(),
		web:   web.New(),
		redis: make(map[string]*redis.Store),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ ports.NotebookStore = (*Dispatcher)(nil)

// Load reads the notebook behind ref.
func (d *Dispatcher) Load(ctx context.Context, ref string) (*domain.Notebook, error) {
	if ref == "" {
		return nil, ErrEmptyRef
	}
	store, key, err := d.route(ref)
	if err != nil {
		return nil, err
	}
	return store.Load(ctx, key)
}

// Store writes the notebook behind ref. An empty ref is a no-op so callers
// can pass an unset output reference through unconditionally.
func (d *Dispatcher) Store(ctx context.Context, nb *domain.Notebook, ref string) error {
	if ref == "" {
		return nil
	}
	store, key, err := d.route(ref)
	if err != nil {
		return err
	}
	return store.Store(ctx, nb, key)
}

func (d *Dispatcher) route(ref string) (ports.NotebookStore, string, error) {
	switch {
	case ref == "-":
		return d.stdio, ref, nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return d.web, ref, nil
	case strings.HasPrefix(ref, "redis://"):
		return d.redisStore(ref)
	default:
		return d.file, ref, nil
	}
}

// redisStore resolves redis://host:port/db/key references, caching one client
// per address.
func (d *Dispatcher) redisStore(ref string) (ports.NotebookStore, string, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, "", fmt.Errorf("invalid redis reference %q: %w", ref, err)
	}

	path := strings.TrimPrefix(parsed.Path, "/")
	db := 0
	key := path
	if first, rest, found := strings.Cut(path, "/"); found {
		if n, err := strconv.Atoi(first); err == nil {
			db = n
			key = rest
		}
	}
	if key == "" {
		return nil, "", fmt.Errorf("redis reference %q carries no notebook key", ref)
	}

	password, _ := parsed.User.Password()
	cacheKey := fmt.Sprintf("%s/%d", parsed.Host, db)

	d.redisMu.Lock()
	defer d.redisMu.Unlock()
	store, ok := d.redis[cacheKey]
	if !ok {
		store = redis.New(parsed.Host, password, db)
		d.redis[cacheKey] = store
	}
	return store, key, nil
}
