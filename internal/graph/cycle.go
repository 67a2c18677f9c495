package graph

// cycleFinder runs Tarjan's strongly-connected-components algorithm to
// enumerate cycles.
type cycleFinder struct {
	graph   *Graph
	index   int
	stack   []string
	onStack map[string]bool
	indices map[string]int
	lowlink map[string]int
	sccs    [][]string
}

// Cycles returns every strongly connected component that forms a cycle,
// including self-referencing nodes.
func (g *Graph) Cycles() [][]string {
	finder := &cycleFinder{
		graph:   g,
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
	}

	for id := range g.nodes {
		if _, visited := finder.indices[id]; !visited {
			finder.strongConnect(id)
		}
	}

	var cycles [][]string
	for _, scc := range finder.sccs {
		if len(scc) > 1 {
			cycles = append(cycles, scc)
			continue
		}
		id := scc[0]
		for _, dep := range g.edges[id] {
			if dep == id {
				cycles = append(cycles, scc)
				break
			}
		}
	}

	return cycles
}

func (f *cycleFinder) strongConnect(id string) {
	f.indices[id] = f.index
	f.lowlink[id] = f.index
	f.index++
	f.stack = append(f.stack, id)
	f.onStack[id] = true

	for _, dep := range f.graph.edges[id] {
		if _, exists := f.graph.nodes[dep]; !exists {
			continue
		}

		if _, visited := f.indices[dep]; !visited {
			f.strongConnect(dep)
			f.lowlink[id] = min(f.lowlink[id], f.lowlink[dep])
		} else if f.onStack[dep] {
			f.lowlink[id] = min(f.lowlink[id], f.indices[dep])
		}
	}

	if f.lowlink[id] == f.indices[id] {
		var scc []string
		for {
			n := len(f.stack) - 1
			w := f.stack[n]
			f.stack = f.stack[:n]
			f.onStack[w] = false
			scc = append(scc, w)
			if w == id {
				break
			}
		}
		f.sccs = append(f.sccs, scc)
	}
}

func (g *Graph) HasCycle() bool {
	return len(g.Cycles()) > 0
}

// CyclePath returns one ordered walk of a cycle reachable from start,
// ending on the repeated node, or nil if none is reachable.
func (g *Graph) CyclePath(start string) []string {
	visited := make(map[string]bool)
	inPath := make(map[string]bool)
	var path []string

	var dfs func(id string) []string
	dfs = func(id string) []string {
		if inPath[id] {
			var cycle []string
			found := false
			for _, p := range path {
				if p == id {
					found = true
				}
				if found {
					cycle = append(cycle, p)
				}
			}
			return append(cycle, id)
		}

		if visited[id] {
			return nil
		}

		visited[id] = true
		path = append(path, id)
		inPath[id] = true

		for _, dep := range g.edges[id] {
			if _, exists := g.nodes[dep]; !exists {
				continue
			}
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		inPath[id] = false
		return nil
	}

	return dfs(start)
}

// CyclePaths returns one ordered walk per detected cycle.
func (g *Graph) CyclePaths() [][]string {
	cycles := g.Cycles()
	if len(cycles) == 0 {
		return nil
	}

	var paths [][]string
	for _, scc := range cycles {
		if path := g.CyclePath(scc[0]); path != nil {
			paths = append(paths, path)
		}
	}

	return paths
}
