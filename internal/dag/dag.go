// Package dag provides the dependency graph used to order table creation.
// A table that is referenced by another table must be created first; the
// graph detects reference cycles before any DDL is issued.
package dag

import (
	"fmt"
	"sort"
)

// Graph is a directed graph of table names. An edge parent -> child means
// child references parent, so parent must be created before child.
type Graph struct {
	nodes   map[string]struct{}
	edges   map[string][]string // parent -> children
	parents map[string][]string // child -> parents
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]struct{}),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a table to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = struct{}{}
	g.edges[id] = nil
	g.parents[id] = nil
}

// AddEdge records that child references parent. Both nodes must exist.
// Self-references are rejected.
func (g *Graph) AddEdge(parent, child string) error {
	if _, ok := g.nodes[parent]; !ok {
		return fmt.Errorf("node %q does not exist", parent)
	}
	if _, ok := g.nodes[child]; !ok {
		return fmt.Errorf("node %q does not exist", child)
	}
	if parent == child {
		return fmt.Errorf("self-reference on %q", parent)
	}
	if !contains(g.edges[parent], child) {
		g.edges[parent] = append(g.edges[parent], child)
	}
	if !contains(g.parents[child], parent) {
		g.parents[child] = append(g.parents[child], parent)
	}
	return nil
}

// HasCycle reports whether the graph contains a reference cycle, along with
// the cycle path (first node repeated at the end).
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	cameFrom := make(map[string]string)

	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		onStack[id] = true

		for _, child := range g.edges[id] {
			if !visited[child] {
				cameFrom[child] = id
				if dfs(child) {
					return true
				}
			} else if onStack[child] {
				cycle = []string{child}
				for cur := id; cur != child; cur = cameFrom[cur] {
					cycle = append([]string{cur}, cycle...)
				}
				cycle = append([]string{child}, cycle...)
				return true
			}
		}

		onStack[id] = false
		return false
	}

	for _, id := range g.sortedIDs() {
		if !visited[id] {
			if dfs(id) {
				return true, cycle
			}
		}
	}
	return false, nil
}

// Sort returns the table names in creation order: every parent before its
// children, ties broken alphabetically for deterministic output. Returns an
// error if the graph contains a cycle.
func (g *Graph) Sort() ([]string, error) {
	if cyclic, cycle := g.HasCycle(); cyclic {
		return nil, fmt.Errorf("cycle detected: %v", cycle)
	}

	visited := make(map[string]bool)
	var order []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, parent := range g.parents[id] {
			visit(parent)
		}
		order = append(order, id)
	}

	for _, id := range g.sortedIDs() {
		visit(id)
	}
	return order, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
