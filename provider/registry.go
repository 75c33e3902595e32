package provider

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps provider names to factories. Instances are not kept; the
// caller owns what Create returns.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry creates an empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

// RegisterFactory adds factory under name. A later registration wins.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
}

// Has reports whether a factory is registered under name.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	_, ok := r.factories[name]
	r.mu.RUnlock()
	return ok
}

// Create builds a provider with the factory registered under name.
func (r *Registry[T]) Create(name string, cfg map[string]any) (T, error) {
	var zero T
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("unknown provider %q, registered: %v", name, r.List())
	}
	p, err := factory(cfg)
	if err != nil {
		return zero, fmt.Errorf("build provider %q: %w", name, err)
	}
	return p, nil
}

// List returns the registered names in sorted order.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}
