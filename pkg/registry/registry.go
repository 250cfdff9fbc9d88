// Package registry maps engine names to execution backends.
//
// A Registry is populated at process start and consulted by name at call time;
// the orchestrator depends only on the ports.Engine interface.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/notemill/pkg/ports"
)

// ErrEngineExists is returned when registering a duplicate engine name.
var ErrEngineExists = errors.New("engine already registered")

// ErrEngineNotFound is returned when no engine matches the requested name.
var ErrEngineNotFound = errors.New("engine not found")

// Registry manages the available execution engines.
type Registry struct {
	mu          sync.RWMutex
	engines     map[string]ports.Engine
	defaultName string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{engines: make(map[string]ports.Engine)}
}

// Register adds an engine under name. Registering an existing name is an
// error; build a fresh registry to rebind names.
func (r *Registry) Register(name string, engine ports.Engine) error {
	if name == "" {
		return fmt.Errorf("engine name is required")
	}
	if engine == nil {
		return fmt.Errorf("engine is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.engines[name]; exists {
		return fmt.Errorf("%w: %s", ErrEngineExists, name)
	}
	r.engines[name] = engine
	if r.defaultName == "" {
		r.defaultName = name
	}
	return nil
}

// SetDefault marks name as the engine used when callers do not name one.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.engines[name]; !exists {
		return fmt.Errorf("%w: %s", ErrEngineNotFound, name)
	}
	r.defaultName = name
	return nil
}

// Get returns the engine registered under name. An empty name returns the
// default engine.
func (r *Registry) Get(name string) (ports.Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaultName
	}
	engine, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEngineNotFound, name)
	}
	return engine, nil
}

// Names returns the registered engine names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
