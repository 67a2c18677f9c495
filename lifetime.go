package loom

import "github.com/avelins/loom/internal/lifetime"

// Lifetime governs how instances of a contract are reused between resolves.
type Lifetime = lifetime.Lifetime

const (
	// Singleton yields the identical instance for every resolve that reaches
	// the same registration, for the registering container's lifetime. The
	// default.
	Singleton = lifetime.Singleton

	// Scoped yields one instance per scope. Sibling scopes hold distinct
	// instances; the root container acts as its own scope.
	Scoped = lifetime.Scoped

	// Transient yields a newly constructed instance on every resolve, even
	// when the contract appears twice in one dependency graph.
	Transient = lifetime.Transient
)
