package loom

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// GraphInfo is a structured snapshot of the visible dependency graph.
type GraphInfo struct {
	Contracts []ContractInfo
}

// ContractInfo describes one visible registration.
type ContractInfo struct {
	Key          string
	Dependencies []string
	Dependents   []string
	Lifetime     Lifetime
	Cached       bool
}

// Graph returns a snapshot of the dependency graph visible from this
// container, including inherited registrations, sorted by key.
func (c *Container) Graph() GraphInfo {
	descriptions := c.internal.Describe()

	dependents := make(map[string][]string)
	for _, d := range descriptions {
		for _, dep := range d.Dependencies {
			dependents[dep] = append(dependents[dep], d.Key)
		}
	}

	contracts := make([]ContractInfo, 0, len(descriptions))
	for _, d := range descriptions {
		contracts = append(contracts, ContractInfo{
			Key:          d.Key,
			Dependencies: d.Dependencies,
			Dependents:   dependents[d.Key],
			Lifetime:     d.Lifetime,
			Cached:       d.Cached,
		})
	}

	return GraphInfo{Contracts: contracts}
}

// PrintGraph writes an ASCII rendering of the graph to stdout.
func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

// FprintGraph writes an ASCII rendering of the graph to w, dependencies
// before their dependents. Cyclic graphs cannot be ordered that way and fall
// back to plain key order. Filled markers are contracts with a cached
// instance in their tier.
func (c *Container) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Contracts) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, contract := range c.renderOrder(info.Contracts) {
		status := "○"
		if contract.Cached {
			status = "●"
		}

		if len(contract.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s [%s]\n", status, contract.Key, contract.Lifetime)
		} else {
			_, _ = fmt.Fprintf(
				w, "%s %s [%s] ← %s\n",
				status, contract.Key, contract.Lifetime, strings.Join(contract.Dependencies, ", "),
			)
		}
	}
}

// renderOrder arranges contracts dependencies-first, so the rendering reads
// in construction order.
func (c *Container) renderOrder(contracts []ContractInfo) []ContractInfo {
	sorted, err := c.internal.Graph().TopologicalSort()
	if err != nil {
		return contracts
	}

	byKey := make(map[string]ContractInfo, len(contracts))
	for _, contract := range contracts {
		byKey[contract.Key] = contract
	}

	out := make([]ContractInfo, 0, len(contracts))
	for _, key := range sorted {
		if contract, ok := byKey[key]; ok {
			out = append(out, contract)
		}
	}
	return out
}

// SprintGraph returns the ASCII rendering of the graph.
func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

// PrintGraphDOT writes a Graphviz DOT rendering of the graph to stdout.
func (c *Container) PrintGraphDOT() {
	c.FprintGraphDOT(os.Stdout)
}

// FprintGraphDOT writes a Graphviz DOT rendering of the graph to w.
func (c *Container) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, contract := range info.Contracts {
		label := escapeLabel(contract.Key)
		style := ""
		if contract.Cached {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", contract.Key, label, style)
	}

	_, _ = fmt.Fprintln(w)

	for _, contract := range info.Contracts {
		for _, dep := range contract.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", contract.Key, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

// SprintGraphDOT returns the DOT rendering of the graph.
func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	if idx := strings.LastIndex(s, "/"); idx != -1 {
		s = s[idx+1:]
	}
	return s
}
