// Package graph provides the rule reference graph used to order and
// classify grammar rules.
package graph

import (
	"slices"

	"github.com/abnfkit/abnfc/internal/ast"
)

// Graph is a directed graph of rule keys. An edge from a to b means rule
// a references rule b. Nodes keep their insertion order so every result
// is deterministic.
type Graph struct {
	order []string
	index map[string]int
	edges map[string][]string
}

// New returns a graph with no nodes or edges. sizeHint preallocates room
// for that many nodes.
func New(sizeHint int) *Graph {
	return &Graph{
		order: make([]string, 0, sizeHint),
		index: make(map[string]int, sizeHint),
		edges: make(map[string][]string, sizeHint),
	}
}

// FromRuleList builds the reference graph of list. Every rule is a node,
// in definition order. References to undefined rules add nodes with no
// outgoing edges.
func FromRuleList(list *ast.RuleList) *Graph {
	g := New(len(list.Rules))
	for _, r := range list.Rules {
		g.AddNode(r.Name.Key())
	}
	for _, r := range list.Rules {
		from := r.Name.Key()
		for _, ref := range ast.References(r) {
			g.AddEdge(from, ref.Key())
		}
	}
	return g
}

// AddNode registers a key. Duplicate calls are no-ops.
func (g *Graph) AddNode(key string) {
	if _, ok := g.index[key]; ok {
		return
	}
	g.index[key] = len(g.order)
	g.order = append(g.order, key)
}

// AddEdge records that "from" references "to". Missing nodes are created
// implicitly. Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// Dependencies returns the keys that key references, in first-reference
// order.
func (g *Graph) Dependencies(key string) []string {
	return g.edges[key]
}

// HasNode reports whether key exists in the graph.
func (g *Graph) HasNode(key string) bool {
	_, ok := g.index[key]
	return ok
}

// Nodes returns all keys in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.order)
}

// ResolutionOrder returns keys ordered so that dependencies come before
// dependents, using Tarjan's algorithm. Strongly connected components with
// more than one node, or a single node with a self-loop, are reported as
// cycles and left out of the order. Members of each cycle are listed in
// insertion order.
func (g *Graph) ResolutionOrder() (order []string, cycles [][]string) {
	var (
		next     int
		stack    []string
		onStack  = make(map[string]bool)
		indices  = make(map[string]int)
		lowlinks = make(map[string]int)
	)

	var strongConnect func(key string)
	strongConnect = func(key string) {
		indices[key] = next
		lowlinks[key] = next
		next++
		stack = append(stack, key)
		onStack[key] = true

		for _, dep := range g.edges[key] {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[key] = min(lowlinks[key], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[key] = min(lowlinks[key], indices[dep])
			}
		}

		if lowlinks[key] != indices[key] {
			return
		}
		var scc []string
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			scc = append(scc, w)
			if w == key {
				break
			}
		}
		switch {
		case len(scc) > 1:
			slices.SortFunc(scc, func(a, b string) int { return g.index[a] - g.index[b] })
			cycles = append(cycles, scc)
		case slices.Contains(g.edges[key], key):
			cycles = append(cycles, scc)
		default:
			order = append(order, key)
		}
	}

	for _, key := range g.order {
		if _, visited := indices[key]; !visited {
			strongConnect(key)
		}
	}
	return order, cycles
}

// Recursive returns the set of keys that take part in a cycle, directly
// or through other rules.
func (g *Graph) Recursive() map[string]bool {
	_, cycles := g.ResolutionOrder()
	rec := make(map[string]bool)
	for _, scc := range cycles {
		for _, key := range scc {
			rec[key] = true
		}
	}
	return rec
}

// HasCycles reports whether the graph contains any cycles.
func (g *Graph) HasCycles() bool {
	_, cycles := g.ResolutionOrder()
	return len(cycles) > 0
}

// Reachable returns every key reachable from key, excluding key itself
// unless it lies on a cycle, in depth-first order.
func (g *Graph) Reachable(key string) []string {
	seen := make(map[string]bool)
	var out []string
	var visit func(k string)
	visit = func(k string) {
		for _, dep := range g.edges[k] {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			visit(dep)
		}
	}
	visit(key)
	return out
}
