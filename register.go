package loom

import (
	"context"

	"github.com/avelins/loom/internal/lifetime"
	"github.com/avelins/loom/internal/registry"
	"github.com/avelins/loom/internal/typekey"
)

// Factory produces an instance of T from its already-resolved dependencies.
// The context is the one passed to the triggering resolve call. Factories
// should not block; a blocking factory blocks every caller waiting on the
// same first construction.
type Factory[T any] func(ctx context.Context, deps Deps) (T, error)

// Deps is the set of resolved dependency instances handed to a factory,
// keyed by contract key. Only dependencies declared with [WithDependencies]
// are present.
type Deps map[string]any

// Get returns the resolved instance for key, if it was declared.
func (d Deps) Get(key string) (any, bool) {
	v, ok := d[key]
	return v, ok
}

// From extracts the dependency of type T from deps.
func From[T any](deps Deps) (T, error) {
	return FromKey[T](deps, typekey.For[T]())
}

// FromNamed extracts the named dependency of type T from deps.
func FromNamed[T any](deps Deps, name string) (T, error) {
	return FromKey[T](deps, typekey.Named[T](name))
}

// FromKey extracts the dependency registered under key from deps and
// asserts it to T.
func FromKey[T any](deps Deps, key string) (T, error) {
	var zero T

	v, ok := deps[key]
	if !ok {
		return zero, errDependencyNotDeclared(key)
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errTypeMismatch(key, typekey.FromValue(v))
	}

	return typed, nil
}

// MustFrom is like [From] but panics when the dependency was not declared
// or has the wrong type. Both are registration bugs, so panicking inside a
// factory surfaces them as ProviderFailed at the resolve call site.
func MustFrom[T any](deps Deps) T {
	v, err := From[T](deps)
	if err != nil {
		panic(err)
	}
	return v
}

// Key returns the contract key for T, for use in [WithDependencies] and
// with [Container.ResolveKey].
func Key[T any]() string {
	return typekey.For[T]()
}

// KeyNamed returns the contract key for T qualified by name.
func KeyNamed[T any](name string) string {
	return typekey.Named[T](name)
}

// RegisterOption configures one registration.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	name         string
	lifetime     lifetime.Lifetime
	dependencies []string
	dispose      registry.DisposeFunc
}

// WithName qualifies the contract key with a name, so several providers of
// one type can be registered side by side. This is the explicit
// multi-binding style: each implementation gets its own named contract.
func WithName(name string) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.name = name
	}
}

// WithLifetime sets the contract's [Lifetime]. The default is [Singleton].
func WithLifetime(l Lifetime) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.lifetime = l
	}
}

// WithDependencies declares the contract keys this factory needs, in the
// order they should be resolved. Build keys with [Key] and [KeyNamed].
func WithDependencies(keys ...string) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.dependencies = keys
	}
}

// WithDispose declares a disposal hook, run with the cached instance when
// the owning container or scope is closed. Without it, instances
// implementing io.Closer are closed instead.
func WithDispose(fn func(ctx context.Context, instance any) error) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.dispose = registry.DisposeFunc(fn)
	}
}

// Register binds the contract T to factory. Registering a contract that
// already exists replaces it: last write wins, and any instance this
// container caches for it is dropped so the new factory governs subsequent
// constructions.
func Register[T any](c *Container, factory Factory[T], opts ...RegisterOption) error {
	cfg := applyRegisterOpts(opts)

	key := typekey.For[T]()
	if cfg.name != "" {
		key = typekey.Named[T](cfg.name)
	}

	var wrapped registry.FactoryFunc
	if factory != nil {
		wrapped = func(ctx context.Context, deps map[string]any) (any, error) {
			return factory(ctx, Deps(deps))
		}
	}

	return register(c, key, wrapped, cfg)
}

// RegisterValue binds the contract T to an existing value, cached as a
// singleton without construction. Nil values are rejected, including typed
// nils, which would otherwise surface only when a caller dereferences the
// resolved instance.
func RegisterValue[T any](c *Container, value T, opts ...RegisterOption) error {
	if typekey.IsNil(value) {
		cfg := applyRegisterOpts(opts)
		key := typekey.For[T]()
		if cfg.name != "" {
			key = typekey.Named[T](cfg.name)
		}
		return newError(ErrCodeInvalidRegistration, "value is nil", nil).withContract(key)
	}

	return Register(
		c, func(ctx context.Context, deps Deps) (T, error) {
			return value, nil
		}, opts...,
	)
}

// RegisterNamed binds the contract T qualified by name to factory.
func RegisterNamed[T any](c *Container, name string, factory Factory[T], opts ...RegisterOption) error {
	opts = append(opts, WithName(name))
	return Register(c, factory, opts...)
}

// RegisterNamedValue binds the contract T qualified by name to a value.
func RegisterNamedValue[T any](c *Container, name string, value T, opts ...RegisterOption) error {
	opts = append(opts, WithName(name))
	return RegisterValue(c, value, opts...)
}

func applyRegisterOpts(opts []RegisterOption) *registerConfig {
	cfg := &registerConfig{lifetime: lifetime.Singleton}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func register(c *Container, key string, factory registry.FactoryFunc, cfg *registerConfig) error {
	d := &registry.Descriptor{
		Key:          key,
		Factory:      factory,
		Dependencies: cfg.dependencies,
		Lifetime:     cfg.lifetime,
		Dispose:      cfg.dispose,
	}

	if err := c.internal.Register(d); err != nil {
		return wrapRegisterErr(key, err)
	}
	return nil
}
