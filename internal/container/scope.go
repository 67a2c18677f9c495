package container

import "github.com/avelins/loom/internal/registry"

// NewScope creates a child container. The scope sees every parent
// registration through lookup fallback and may register local overrides; it
// shares the root construction mutex but keeps an independent cache, so
// sibling scopes hold distinct scoped instances. Parent-registered
// singletons stay cached at their owning container and are shared, while a
// scope-local override's singleton lives and dies with the scope.
func (c *Container) NewScope() *Container {
	root := c.root()

	return &Container{
		parent:   c,
		registry: registry.New(),
		cache:    newInstanceCache(),
		logger:   root.logger,
		buildMu:  root.buildMu,
	}
}

// IsScope reports whether this container was created by NewScope.
func (c *Container) IsScope() bool {
	return c.parent != nil
}
