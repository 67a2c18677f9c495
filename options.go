package loom

import "log/slog"

// Option configures a root container at creation.
type Option func(*containerConfig)

// WithLogger sets the slog logger the container emits debug records to.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *containerConfig) {
		cfg.logger = logger
	}
}

// WithResolveObserver registers a hook called after every top-level resolve
// with the contract key, elapsed time and outcome. Scopes report through
// the root's observers.
func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

// WithDisposeObserver registers a hook called for each instance disposed
// during Close.
func WithDisposeObserver(hook DisposeHook) Option {
	return func(cfg *containerConfig) {
		cfg.onDispose = append(cfg.onDispose, hook)
	}
}
