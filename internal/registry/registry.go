// Package registry stores service descriptors for one container.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/avelins/loom/internal/lifetime"
)

// FactoryFunc builds an instance from its already-resolved dependencies,
// keyed by contract key.
type FactoryFunc func(ctx context.Context, deps map[string]any) (any, error)

// DisposeFunc releases an instance when its owning container is closed.
type DisposeFunc func(ctx context.Context, instance any) error

// Descriptor is the immutable recipe for producing instances of a contract.
type Descriptor struct {
	Key          string
	Factory      FactoryFunc
	Dependencies []string
	Lifetime     lifetime.Lifetime
	Dispose      DisposeFunc
}

// InvalidError reports a malformed registration.
type InvalidError struct {
	Key    string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid registration for %s: %s", e.Key, e.Reason)
}

// Registry maps contract keys to descriptors. Registering an existing key
// replaces the prior descriptor; callers surface that as last-write-wins.
type Registry struct {
	mu       sync.RWMutex
	services map[string]*Descriptor
}

func New() *Registry {
	return &Registry{
		services: make(map[string]*Descriptor),
	}
}

// Register validates and stores a descriptor. It returns the replaced
// descriptor's presence so callers can invalidate stale cached instances.
func (r *Registry) Register(d *Descriptor) (replaced bool, err error) {
	if err := validate(d); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced = r.services[d.Key]
	r.services[d.Key] = d
	return replaced, nil
}

func validate(d *Descriptor) error {
	if !wellFormed(d.Key) {
		return &InvalidError{Key: d.Key, Reason: "contract key must be a non-empty identifier"}
	}
	if d.Factory == nil {
		return &InvalidError{Key: d.Key, Reason: "factory is required"}
	}
	for _, dep := range d.Dependencies {
		if !wellFormed(dep) {
			return &InvalidError{Key: d.Key, Reason: fmt.Sprintf("dependency key %q is not an identifier", dep)}
		}
	}
	return nil
}

func wellFormed(key string) bool {
	return key != "" && strings.TrimSpace(key) == key
}

func (r *Registry) Lookup(key string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.services[key]
	return d, ok
}

func (r *Registry) Has(key string) bool {
	_, ok := r.Lookup(key)
	return ok
}

func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.services))
	for key := range r.services {
		keys = append(keys, key)
	}
	return keys
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.services)
}

// Snapshot returns a copy of the descriptor set for graph construction.
func (r *Registry) Snapshot() map[string]*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*Descriptor, len(r.services))
	for key, d := range r.services {
		out[key] = d
	}
	return out
}
