package container

import (
	"context"
	"fmt"
	"time"

	"github.com/avelins/loom/internal/lifetime"
	"github.com/avelins/loom/internal/registry"
)

// Resolve materializes the contract identified by key. Cached Singleton and
// Scoped instances are returned without re-resolving their dependencies; a
// cache miss serializes on the construction mutex so concurrent first
// resolutions of the same contract invoke its factory exactly once.
func (c *Container) Resolve(ctx context.Context, key string) (any, error) {
	start := time.Now()
	instance, err := c.resolve(ctx, key)
	c.observeResolve(key, time.Since(start), err)
	return instance, err
}

func (c *Container) resolve(ctx context.Context, key string) (any, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	d, owner, ok := c.lookup(key)
	if !ok {
		return nil, &NotFoundError{Key: key}
	}

	if instance, ok := c.cached(d, owner); ok {
		return instance, nil
	}

	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	return c.construct(ctx, key, newResolution())
}

// construct recursively builds key and its declared dependencies. The
// caller holds buildMu; recursion reuses it rather than re-acquiring.
func (c *Container) construct(ctx context.Context, key string, res *resolution) (any, error) {
	if res.inProgress(key) {
		return nil, &CycleError{Chain: res.cycle(key)}
	}

	d, owner, ok := c.lookup(key)
	if !ok {
		return nil, &NotFoundError{Key: key}
	}

	// Cached instances are already fully constructed; their dependencies
	// are not revisited.
	if instance, ok := c.cached(d, owner); ok {
		return instance, nil
	}

	res.push(key)
	deps := make(map[string]any, len(d.Dependencies))
	for _, dep := range d.Dependencies {
		instance, err := c.construct(ctx, dep, res)
		if err != nil {
			return nil, fmt.Errorf("%s depends on %s: %w", key, dep, err)
		}
		deps[dep] = instance
	}
	res.pop()

	instance, err := d.Factory(ctx, deps)
	if err != nil {
		// Failed constructions are never cached.
		return nil, &FactoryError{Key: key, Err: err}
	}

	c.store(d, owner, instance)
	c.logger.Debug("constructed", "contract", key, "lifetime", d.Lifetime.String())
	return instance, nil
}

// cached returns the existing instance for d from the cache tier its
// lifetime dictates. Singletons live at the container that owns the winning
// descriptor; scoped instances at the container that initiated the resolve
// call. Transient contracts are never cached.
func (c *Container) cached(d *registry.Descriptor, owner *Container) (any, bool) {
	switch d.Lifetime {
	case lifetime.Singleton:
		return owner.cache.get(d.Key)
	case lifetime.Scoped:
		return c.cache.get(d.Key)
	default:
		return nil, false
	}
}

// store caches a freshly constructed instance in the tier cached reads from.
func (c *Container) store(d *registry.Descriptor, owner *Container, instance any) {
	switch d.Lifetime {
	case lifetime.Singleton:
		owner.cache.put(d.Key, instance, d.Dispose)
	case lifetime.Scoped:
		c.cache.put(d.Key, instance, d.Dispose)
	}
}
