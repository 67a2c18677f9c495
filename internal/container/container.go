// Package container implements the resolution and lifetime core: descriptor
// lookup with parent fallback, recursive construction with call-local cycle
// detection, lifetime-tiered instance caching, and scope disposal.
package container

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/avelins/loom/internal/graph"
	"github.com/avelins/loom/internal/lifetime"
	"github.com/avelins/loom/internal/registry"
)

// ResolveHook observes the outcome of a top-level resolve call.
type ResolveHook func(key string, duration time.Duration, err error)

// DisposeHook observes the outcome of disposing one cached instance.
type DisposeHook func(key string, err error)

type Container struct {
	parent   *Container
	registry *registry.Registry
	cache    *instanceCache
	logger   *slog.Logger

	// buildMu serializes first-time construction across the whole container
	// tree; cached reads never take it. Owned by the root, shared by scopes.
	buildMu *sync.Mutex

	mu     sync.RWMutex
	closed bool

	onResolve []ResolveHook
	onDispose []DisposeHook
}

type Config struct {
	Logger    *slog.Logger
	OnResolve []ResolveHook
	OnDispose []DisposeHook
}

func New(cfg *Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Container{
		registry:  registry.New(),
		cache:     newInstanceCache(),
		logger:    logger,
		buildMu:   &sync.Mutex{},
		onResolve: cfg.OnResolve,
		onDispose: cfg.OnDispose,
	}
}

func (c *Container) root() *Container {
	r := c
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Register stores a descriptor in this container's own registry. Registering
// a key that already exists replaces the prior descriptor (last write wins)
// and drops any instance this container caches for it, so the new descriptor
// governs subsequent constructions. Instances already handed out, or cached
// in other live scopes, are unaffected until their owner is disposed.
func (c *Container) Register(d *registry.Descriptor) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	replaced, err := c.registry.Register(d)
	if err != nil {
		return err
	}

	if replaced {
		c.cache.invalidate(d.Key)
		c.logger.Debug("descriptor replaced", "contract", d.Key, "lifetime", d.Lifetime.String())
	} else {
		c.logger.Debug("descriptor registered", "contract", d.Key, "lifetime", d.Lifetime.String())
	}

	return nil
}

// lookup finds the descriptor for key, consulting this container's registry
// first and then the parent chain, so scope-local overrides win. It also
// returns the container that owns the winning descriptor: singletons cache
// at their owner, which keeps a scope-local override invisible to the root
// and to sibling scopes.
func (c *Container) lookup(key string) (*registry.Descriptor, *Container, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if d, ok := cur.registry.Lookup(key); ok {
			return d, cur, true
		}
	}
	return nil, nil, false
}

func (c *Container) Has(key string) bool {
	_, _, ok := c.lookup(key)
	return ok
}

// Keys returns the effective contract keys visible from this container,
// including inherited parent registrations, sorted.
func (c *Container) Keys() []string {
	seen := make(map[string]bool)
	var keys []string

	for cur := c; cur != nil; cur = cur.parent {
		for _, key := range cur.registry.Keys() {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}

	sort.Strings(keys)
	return keys
}

func (c *Container) Size() int {
	return len(c.Keys())
}

// effective returns the visible descriptor set with overrides applied.
func (c *Container) effective() map[string]*registry.Descriptor {
	out := make(map[string]*registry.Descriptor)
	for cur := c; cur != nil; cur = cur.parent {
		for key, d := range cur.registry.Snapshot() {
			if _, ok := out[key]; !ok {
				out[key] = d
			}
		}
	}
	return out
}

// Description is a point-in-time view of one visible registration, for
// introspection and graph rendering.
type Description struct {
	Key          string
	Dependencies []string
	Lifetime     lifetime.Lifetime
	Cached       bool
}

// Describe returns the visible registrations sorted by key, with a snapshot
// of whether each one currently has a cached instance in its tier.
func (c *Container) Describe() []Description {
	out := make([]Description, 0, c.Size())
	for _, key := range c.Keys() {
		d, owner, ok := c.lookup(key)
		if !ok {
			continue
		}
		_, cached := c.cached(d, owner)

		deps := make([]string, len(d.Dependencies))
		copy(deps, d.Dependencies)

		out = append(out, Description{
			Key:          key,
			Dependencies: deps,
			Lifetime:     d.Lifetime,
			Cached:       cached,
		})
	}
	return out
}

// Graph builds the dependency graph of the effective descriptor set.
func (c *Container) Graph() *graph.Graph {
	g := graph.New()
	for key, d := range c.effective() {
		g.AddNode(key, d.Dependencies)
	}
	return g
}

// Validate statically checks the effective registrations: every declared
// dependency must be registered and the graph must be acyclic. Cycles are
// also caught at resolve time; Validate lets callers fail fast at startup.
func (c *Container) Validate() error {
	g := c.Graph()

	if missing := g.MissingDependencies(); len(missing) > 0 {
		sort.Strings(missing)
		return &ValidationError{Missing: missing}
	}

	if cycles := g.CyclePaths(); len(cycles) > 0 {
		return &ValidationError{Cycles: cycles}
	}

	return nil
}

func (c *Container) checkOpen() error {
	root := c.root()
	if root != c {
		root.mu.RLock()
		rootClosed := root.closed
		root.mu.RUnlock()
		if rootClosed {
			return &ClosedError{}
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return &ClosedError{}
	}
	return nil
}

func (c *Container) observeResolve(key string, duration time.Duration, err error) {
	for _, hook := range c.root().onResolve {
		hook(key, duration, err)
	}
}

func (c *Container) observeDispose(key string, err error) {
	for _, hook := range c.root().onDispose {
		hook(key, err)
	}
}
