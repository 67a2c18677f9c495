// Package loomtest provides helpers for exercising loom containers in
// tests: fatal-on-error registration and resolution, contract assertions,
// and test-double swapping via loom's last-write-wins registration.
package loomtest

import (
	"context"

	"github.com/avelins/loom"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// TestContainer wraps a container whose Close is bound to the test's
// Cleanup, so cached instances are disposed when the test ends.
type TestContainer struct {
	*loom.Container
	tb TB
}

// New creates a root TestContainer.
func New(tb TB, opts ...loom.Option) *TestContainer {
	tb.Helper()

	c := loom.New(opts...)
	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(func() {
		if err := c.Close(context.Background()); err != nil && !loom.IsContainerClosed(err) {
			tb.Fatalf("failed to close container: %v", err)
		}
	})

	return tc
}

// CreateScope creates a child scope whose Close is bound to the test's
// Cleanup.
func (tc *TestContainer) CreateScope() *TestContainer {
	tc.tb.Helper()

	scope := tc.Container.CreateScope()
	stc := &TestContainer{
		Container: scope,
		tb:        tc.tb,
	}

	tc.tb.Cleanup(func() {
		if err := scope.Close(context.Background()); err != nil && !loom.IsContainerClosed(err) {
			tc.tb.Fatalf("failed to close scope: %v", err)
		}
	})

	return stc
}

// RequireValidate fails the test when the registered graph has missing
// dependencies or cycles.
func (tc *TestContainer) RequireValidate() {
	tc.tb.Helper()

	if err := tc.Validate(); err != nil {
		tc.tb.Fatalf("container validation failed: %v", err)
	}
}

// Swap replaces the registration for T with a fixed value. Registration is
// last-write-wins, so this is the supported way to install a test double
// over production wiring.
func Swap[T any](tc *TestContainer, value T) {
	tc.tb.Helper()

	if err := loom.RegisterValue(tc.Container, value); err != nil {
		tc.tb.Fatalf("failed to swap %s: %v", loom.Key[T](), err)
	}
}

// SwapNamed replaces the named registration for T with a fixed value.
func SwapNamed[T any](tc *TestContainer, name string, value T) {
	tc.tb.Helper()

	if err := loom.RegisterNamedValue(tc.Container, name, value); err != nil {
		tc.tb.Fatalf("failed to swap %s: %v", loom.KeyNamed[T](name), err)
	}
}

// SwapFactory replaces the registration for T with a factory.
func SwapFactory[T any](tc *TestContainer, factory loom.Factory[T], opts ...loom.RegisterOption) {
	tc.tb.Helper()

	if err := loom.Register(tc.Container, factory, opts...); err != nil {
		tc.tb.Fatalf("failed to swap factory for %s: %v", loom.Key[T](), err)
	}
}

// MustRegister registers a factory for T, failing the test on error.
func MustRegister[T any](tc *TestContainer, factory loom.Factory[T], opts ...loom.RegisterOption) {
	tc.tb.Helper()

	if err := loom.Register(tc.Container, factory, opts...); err != nil {
		tc.tb.Fatalf("failed to register %s: %v", loom.Key[T](), err)
	}
}

// MustRegisterValue registers a value for T, failing the test on error.
func MustRegisterValue[T any](tc *TestContainer, value T, opts ...loom.RegisterOption) {
	tc.tb.Helper()

	if err := loom.RegisterValue(tc.Container, value, opts...); err != nil {
		tc.tb.Fatalf("failed to register value %s: %v", loom.Key[T](), err)
	}
}

// MustRegisterNamed registers a named factory for T, failing the test on
// error.
func MustRegisterNamed[T any](tc *TestContainer, name string, factory loom.Factory[T], opts ...loom.RegisterOption) {
	tc.tb.Helper()

	if err := loom.RegisterNamed(tc.Container, name, factory, opts...); err != nil {
		tc.tb.Fatalf("failed to register %s: %v", loom.KeyNamed[T](name), err)
	}
}

// MustRegisterNamedValue registers a named value for T, failing the test on
// error.
func MustRegisterNamedValue[T any](tc *TestContainer, name string, value T, opts ...loom.RegisterOption) {
	tc.tb.Helper()

	if err := loom.RegisterNamedValue(tc.Container, name, value, opts...); err != nil {
		tc.tb.Fatalf("failed to register value %s: %v", loom.KeyNamed[T](name), err)
	}
}

// MustResolve resolves T, failing the test on error.
func MustResolve[T any](tc *TestContainer) T {
	tc.tb.Helper()

	v, err := loom.Resolve[T](tc.Container)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", loom.Key[T](), err)
	}
	return v
}

// MustResolveNamed resolves the named contract T, failing the test on
// error.
func MustResolveNamed[T any](tc *TestContainer, name string) T {
	tc.tb.Helper()

	v, err := loom.ResolveNamed[T](tc.Container, name)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", loom.KeyNamed[T](name), err)
	}
	return v
}

// AssertHas fails the test unless the contract T is registered.
func AssertHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if !loom.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to have %s", loom.Key[T]())
	}
}

// AssertHasNamed fails the test unless the named contract T is registered.
func AssertHasNamed[T any](tc *TestContainer, name string) {
	tc.tb.Helper()

	if !loom.HasNamed[T](tc.Container, name) {
		tc.tb.Fatalf("expected container to have %s", loom.KeyNamed[T](name))
	}
}

// AssertNotHas fails the test when the contract T is registered.
func AssertNotHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if loom.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to not have %s", loom.Key[T]())
	}
}
