package loom

import (
	"context"

	"github.com/avelins/loom/internal/typekey"
)

// Resolve materializes the contract T from the container.
func Resolve[T any](c *Container) (T, error) {
	return ResolveCtx[T](context.Background(), c)
}

// ResolveCtx materializes T, passing ctx through to any factories invoked.
func ResolveCtx[T any](ctx context.Context, c *Container) (T, error) {
	return resolveKey[T](ctx, c, typekey.For[T]())
}

// ResolveNamed materializes the contract T qualified by name.
func ResolveNamed[T any](c *Container, name string) (T, error) {
	return ResolveNamedCtx[T](context.Background(), c, name)
}

// ResolveNamedCtx materializes the named contract T with ctx.
func ResolveNamedCtx[T any](ctx context.Context, c *Container, name string) (T, error) {
	return resolveKey[T](ctx, c, typekey.Named[T](name))
}

func resolveKey[T any](ctx context.Context, c *Container, key string) (T, error) {
	var zero T

	instance, err := c.internal.Resolve(ctx, key)
	if err != nil {
		return zero, wrapResolveErr(key, err)
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errResolutionFailed(key, errTypeMismatch(key, typekey.FromValue(instance)))
	}

	return typed, nil
}

// MustResolve is like [Resolve] but panics on failure.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// MustResolveCtx is like [ResolveCtx] but panics on failure.
func MustResolveCtx[T any](ctx context.Context, c *Container) T {
	v, err := ResolveCtx[T](ctx, c)
	if err != nil {
		panic(err)
	}
	return v
}

// MustResolveNamed is like [ResolveNamed] but panics on failure.
func MustResolveNamed[T any](c *Container, name string) T {
	v, err := ResolveNamed[T](c, name)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve materializes T, reporting failure as a bool for callers that
// treat the contract as optional.
func TryResolve[T any](c *Container) (T, bool) {
	v, err := Resolve[T](c)
	return v, err == nil
}

// TryResolveNamed is [TryResolve] for named contracts.
func TryResolveNamed[T any](c *Container, name string) (T, bool) {
	v, err := ResolveNamed[T](c, name)
	return v, err == nil
}

// Has reports whether the contract T is registered on c or an ancestor.
func Has[T any](c *Container) bool {
	return c.internal.Has(typekey.For[T]())
}

// HasNamed reports whether the named contract T is registered.
func HasNamed[T any](c *Container, name string) bool {
	return c.internal.Has(typekey.Named[T](name))
}
