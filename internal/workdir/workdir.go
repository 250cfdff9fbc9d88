// Package workdir scopes changes to the process working directory.
//
// The working directory is process-global state, so concurrent orchestrations
// must not race on it: acquisition is serialized behind a single package-level
// lock held for the duration of the scope.
package workdir

import (
	"fmt"
	"os"
	"sync"
)

var mu sync.Mutex

// Scope switches the process working directory to dir and returns a restore
// function that must be called on every exit path. An empty dir acquires
// nothing and restores nothing.
func Scope(dir string) (restore func() error, err error) {
	if dir == "" {
		return func() error { return nil }, nil
	}

	mu.Lock()
	previous, err := os.Getwd()
	if err != nil {
		mu.Unlock()
		return nil, fmt.Errorf("failed to read working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		mu.Unlock()
		return nil, fmt.Errorf("failed to change working directory: %w", err)
	}

	var once sync.Once
	restore = func() error {
		var restoreErr error
		once.Do(func() {
			restoreErr = os.Chdir(previous)
			mu.Unlock()
		})
		return restoreErr
	}
	return restore, nil
}
