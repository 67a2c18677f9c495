// Package graph models the dependency graph of a container for static
// validation and introspection. Graphs are built from a registry snapshot
// and are not mutated afterwards.
package graph

type Graph struct {
	nodes map[string]struct{}
	edges map[string][]string
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		edges: make(map[string][]string),
	}
}

func (g *Graph) AddNode(id string, dependencies []string) {
	g.nodes[id] = struct{}{}
	g.edges[id] = dependencies
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) Dependencies(id string) []string {
	deps, ok := g.edges[id]
	if !ok {
		return nil
	}

	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		nodes = append(nodes, id)
	}
	return nodes
}

func (g *Graph) Size() int {
	return len(g.nodes)
}

// MissingDependencies returns dependency ids referenced by some node but not
// present in the graph.
func (g *Graph) MissingDependencies() []string {
	var missing []string
	seen := make(map[string]bool)

	for _, deps := range g.edges {
		for _, dep := range deps {
			if _, exists := g.nodes[dep]; !exists && !seen[dep] {
				missing = append(missing, dep)
				seen[dep] = true
			}
		}
	}

	return missing
}
