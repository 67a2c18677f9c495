package container

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/avelins/loom/internal/registry"
)

// cacheEntry remembers one constructed instance together with its disposal
// hook. Entries are append-only so disposal can replay creation order in
// reverse, even for instances later dropped from the lookup map by a
// replacing registration.
type cacheEntry struct {
	key      string
	instance any
	dispose  registry.DisposeFunc
}

// instanceCache is one cache tier: the root's holds singletons, each scope's
// holds its scoped instances. Reads take no part in construction
// serialization; that is buildMu's job.
type instanceCache struct {
	mu        sync.RWMutex
	instances map[string]any
	order     []cacheEntry
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[string]any),
	}
}

func (ic *instanceCache) get(key string) (any, bool) {
	ic.mu.RLock()
	defer ic.mu.RUnlock()

	instance, ok := ic.instances[key]
	return instance, ok
}

func (ic *instanceCache) put(key string, instance any, dispose registry.DisposeFunc) {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	ic.instances[key] = instance
	ic.order = append(ic.order, cacheEntry{key: key, instance: instance, dispose: dispose})
}

// invalidate drops key from the lookup map so the next resolve constructs
// anew. The order entry stays: the old instance is still disposed when the
// owning container closes.
func (ic *instanceCache) invalidate(key string) {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	delete(ic.instances, key)
}

// drain empties the cache and returns the entries in creation order.
func (ic *instanceCache) drain() []cacheEntry {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	entries := ic.order
	ic.order = nil
	ic.instances = make(map[string]any)
	return entries
}

// Close disposes every instance cached in this container's own tier, in
// reverse creation order, then discards the cache. A scope's close never
// touches the parent's singletons. Close fails once the container is
// already closed; disposal errors are joined, never swallowed.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return &ClosedError{}
	}
	c.closed = true
	c.mu.Unlock()

	entries := c.cache.drain()

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		err := disposeInstance(ctx, entry)
		c.observeDispose(entry.key, err)
		if err != nil {
			errs = append(errs, &DisposeError{Key: entry.key, Err: err})
			continue
		}
		c.logger.Debug("disposed", "contract", entry.key)
	}

	return errors.Join(errs...)
}

// disposeInstance runs the descriptor's declared disposer, falling back to
// io.Closer when none was declared.
func disposeInstance(ctx context.Context, entry cacheEntry) error {
	if entry.dispose != nil {
		return entry.dispose(ctx, entry.instance)
	}
	if closer, ok := entry.instance.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
