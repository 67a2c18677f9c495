package loom

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avelins/loom/internal/container"
)

// Container owns a registry of service descriptors and the instance caches
// for their lifetimes. Create one with [New], register contracts with
// [Register] and friends, and materialize them with [Resolve]. All
// resolution goes through an explicit *Container handle; there is no
// process-wide default container.
type Container struct {
	internal *container.Container
}

type containerConfig struct {
	logger    *slog.Logger
	onResolve []ResolveHook
	onDispose []DisposeHook
}

// New creates an empty root container.
func New(opts ...Option) *Container {
	cfg := &containerConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	onResolve := make([]container.ResolveHook, len(cfg.onResolve))
	for i, hook := range cfg.onResolve {
		onResolve[i] = container.ResolveHook(hook)
	}
	onDispose := make([]container.DisposeHook, len(cfg.onDispose))
	for i, hook := range cfg.onDispose {
		onDispose[i] = container.DisposeHook(hook)
	}

	return &Container{
		internal: container.New(
			&container.Config{
				Logger:    cfg.logger,
				OnResolve: onResolve,
				OnDispose: onDispose,
			},
		),
	}
}

// CreateScope returns a child container. The scope resolves every contract
// registered on its ancestors, may override contracts locally, shares
// Singletons cached by its ancestors, and caches Scoped contracts
// independently of any sibling scope. Close the scope to dispose its cached
// instances, locally overridden Singletons included.
func (c *Container) CreateScope() *Container {
	return &Container{internal: c.internal.NewScope()}
}

// IsScope reports whether this container was created by [Container.CreateScope].
func (c *Container) IsScope() bool {
	return c.internal.IsScope()
}

// Close disposes every instance cached in this container's own tier, in
// reverse creation order, then marks the container closed. Closing a scope
// never affects the parent; closing the root does not close scopes that are
// still alive, which is the caller's responsibility. Close must not run
// concurrently with a resolve against the same container.
func (c *Container) Close(ctx context.Context) error {
	if err := c.internal.Close(ctx); err != nil {
		return wrapCloseErr(err)
	}
	return nil
}

// ResolveKey materializes the contract identified by key. Prefer the
// generic [Resolve] helper; ResolveKey exists for dynamic callers that
// build keys at runtime.
func (c *Container) ResolveKey(ctx context.Context, key string) (any, error) {
	instance, err := c.internal.Resolve(ctx, key)
	if err != nil {
		return nil, wrapResolveErr(key, err)
	}
	return instance, nil
}

// Validate statically checks the registered graph: every declared
// dependency must be registered here or on an ancestor, and the graph must
// be acyclic. It constructs nothing.
func (c *Container) Validate() error {
	if err := c.internal.Validate(); err != nil {
		return newError(ErrCodeValidationFailed, "container validation failed", err)
	}
	return nil
}

// HasKey reports whether key is registered on this container or an ancestor.
func (c *Container) HasKey(key string) bool {
	return c.internal.Has(key)
}

// Keys returns the contract keys visible from this container, sorted.
func (c *Container) Keys() []string {
	return c.internal.Keys()
}

// Size returns the number of contracts visible from this container.
func (c *Container) Size() int {
	return c.internal.Size()
}

func wrapCloseErr(err error) *Error {
	var closedErr *container.ClosedError
	if errors.As(err, &closedErr) {
		return newError(ErrCodeContainerClosed, "container is closed", err)
	}
	return newError(ErrCodeDisposeFailed, "disposal failed", err)
}
