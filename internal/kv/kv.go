// Package kv defines the key-value capability the relay persists through and
// the named bindings the host exposes it under.
package kv

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by Store.Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is an opaque key-value namespace. Both operations may block and may
// fail; Put overwrites unconditionally.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error

	// Lifecycle
	Close() error
}

// Bindings maps binding names to stores. It stands in for the handles a
// hosting environment injects into request handlers.
type Bindings struct {
	mu     sync.RWMutex
	stores map[string]Store
}

// NewBindings returns an empty binding registry.
func NewBindings() *Bindings {
	return &Bindings{stores: make(map[string]Store)}
}

// Bind registers s under name, replacing any previous store.
func (b *Bindings) Bind(name string, s Store) {
	b.mu.Lock()
	b.stores[name] = s
	b.mu.Unlock()
}

// Lookup returns the store bound to name.
func (b *Bindings) Lookup(name string) (Store, bool) {
	if b == nil {
		return nil, false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.stores[name]
	return s, ok && s != nil
}

// Names returns the bound names in sorted order.
func (b *Bindings) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.stores))
	for n := range b.stores {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close closes every bound store and returns the first error.
func (b *Bindings) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var first error
	for name, s := range b.stores {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
		delete(b.stores, name)
	}
	return first
}
