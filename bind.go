package loom

import (
	"context"
	"fmt"

	"github.com/avelins/loom/internal/typekey"
)

// Bind registers the contract I as an alias for the implementation T, which
// must be registered separately. Resolving I resolves T and returns it as
// I. The binding itself is Transient: caching follows T's own registered
// lifetime, so a Singleton implementation stays a singleton behind any
// number of interface bindings.
//
// Bind is the intended way to model capability interfaces: declare minimal
// interfaces per capability and bind each one to concrete types that
// actually support it, instead of one wide interface with unsupported
// methods.
func Bind[I, T any](c *Container, opts ...RegisterOption) error {
	cfg := applyRegisterOpts(opts)
	cfg.lifetime = Transient
	cfg.dependencies = []string{typekey.For[T]()}

	key := typekey.For[I]()
	if cfg.name != "" {
		key = typekey.Named[I](cfg.name)
	}

	implKey := typekey.For[T]()
	factory := func(ctx context.Context, deps map[string]any) (any, error) {
		impl, ok := deps[implKey]
		if !ok {
			return nil, errDependencyNotDeclared(implKey)
		}

		bound, ok := impl.(I)
		if !ok {
			return nil, fmt.Errorf("%s does not implement %s", typekey.FromValue(impl), typekey.TypeName[I]())
		}
		return bound, nil
	}

	return register(c, key, factory, cfg)
}

// BindNamed registers the contract I qualified by name as an alias for the
// implementation T.
func BindNamed[I, T any](c *Container, name string, opts ...RegisterOption) error {
	opts = append(opts, WithName(name))
	return Bind[I, T](c, opts...)
}
