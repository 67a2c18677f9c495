// Package loom is a small, lifetime-aware dependency injection container
// for Go 1.25+.
//
// Contracts are identified by type (optionally qualified by name), bound to
// factories that receive their declared dependencies already resolved, and
// cached according to a declared lifetime: Singleton, Scoped or Transient.
//
// # Quick Start
//
// Create a container and register factories:
//
//	c := loom.New()
//
//	loom.Register(c, func(ctx context.Context, deps loom.Deps) (*Config, error) {
//	    return &Config{Port: 8080}, nil
//	})
//
//	loom.Register(c, func(ctx context.Context, deps loom.Deps) (*Server, error) {
//	    cfg, err := loom.From[*Config](deps)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Server{config: cfg}, nil
//	}, loom.WithDependencies(loom.Key[*Config]()))
//
//	srv, err := loom.Resolve[*Server](c)
//
// # Contracts and Dependencies
//
// A contract key is derived from the registered type with [Key], or from a
// type plus a name with [KeyNamed]. Dependencies are declared at
// registration with [WithDependencies]; the container resolves them in
// declared order and hands them to the factory as a [Deps] set. A factory
// never resolves on its own, so the dependency graph is fully known to the
// container.
//
// Registering a key that is already registered replaces the prior
// registration: last write wins. This is deliberate and is the supported way
// to override a contract, for scope-local overrides and for swapping test
// doubles (see the loomtest package).
//
// # Lifetimes
//
//	loom.Register(c, newLogger)                                     // Singleton (default)
//	loom.Register(c, newRepo, loom.WithLifetime(loom.Scoped))       // one per scope
//	loom.Register(c, newHandler, loom.WithLifetime(loom.Transient)) // new every resolve
//
// Singletons are cached once on the container that registered them, even
// when resolution was triggered from a scope. Scoped contracts are cached on
// the container that initiated the resolve call; the root acts as its own
// scope. Transient contracts are constructed on every resolve, including
// when the same contract is reached twice within one dependency graph.
//
// # Scopes
//
// A scope is a child container: it inherits the parent's registrations,
// shares the parent's singletons and keeps its own cache. A registration
// made on the scope overrides the inherited one for that scope only.
//
//	scope := c.CreateScope()
//	defer scope.Close(ctx)
//
//	repo := loom.MustResolve[*Repo](scope)
//
// Closing a container or scope disposes the instances cached in its own
// tier, in reverse creation order, using the disposer declared with
// [WithDispose] or the instance's io.Closer implementation. Closing a scope
// never affects the parent.
//
// # Errors
//
// Resolution never silently returns a zero value. Failures carry an
// [ErrorCode]: unregistered contracts ([ErrCodeUnregistered]), dependency
// cycles with the full cycle chain ([ErrCodeCircularDependency]), and
// factory failures wrapped with the originating contract
// ([ErrCodeProviderFailed]). Use the Is predicates to classify:
//
//	if loom.IsUnregistered(err) { ... }
//
// # Concurrency
//
// Containers and scopes are safe for concurrent use. Reads of cached
// instances take no construction lock; first-time construction is
// serialized so concurrent resolves of the same Singleton or Scoped
// contract invoke the factory exactly once. Cycle detection state is local
// to each resolve call, so concurrent resolutions cannot interfere.
// Factories are expected to be non-blocking; a hung factory hangs its
// caller. A scope must not be closed while a resolve against it is in
// flight.
//
// # Validation and Introspection
//
// [Container.Validate] statically checks the registered graph for missing
// dependencies and cycles before anything is constructed.
// [Container.PrintGraph] and [Container.SprintGraphDOT] render the graph
// for debugging.
package loom
