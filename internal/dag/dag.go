// Package dag orders option references so that every option is evaluated
// after the options its default reads from.
package dag

import (
	"fmt"
	"strings"
)

// CycleError reports a closed reference path. Cycle starts and ends with the
// same node, e.g. [a b a].
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Graph is a directed graph keyed by option name. An edge from A to B means A
// must be evaluated before B.
type Graph struct {
	adjacency map[string][]string
	nodes     []string
	nodeSet   map[string]bool
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node. Adding a known node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from must come before to. Both nodes are added when
// missing; duplicate edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	for _, existing := range g.adjacency[from] {
		if existing == to {
			return
		}
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Nodes returns nodes in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Successors returns the nodes that must come after name.
func (g *Graph) Successors(name string) []string {
	return append([]string(nil), g.adjacency[name]...)
}

// TopologicalSort returns an order using Kahn's algorithm. Nodes that become
// ready together keep their insertion order, so the result is deterministic.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		remaining := make(map[string]bool)
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				remaining[node] = true
			}
		}
		return nil, &CycleError{Cycle: g.findCycle(remaining)}
	}
	return result, nil
}

// findCycle walks the unsorted remainder to extract one closed path. Every
// node left after Kahn's algorithm lies on or downstream of a cycle, so a
// walk that stays inside the remainder must revisit a node.
func (g *Graph) findCycle(remaining map[string]bool) []string {
	var start string
	for _, node := range g.nodes {
		if remaining[node] {
			start = node
			break
		}
	}
	if start == "" {
		return nil
	}
	position := map[string]int{}
	var path []string
	node := start
	for {
		if at, seen := position[node]; seen {
			cycle := append([]string(nil), path[at:]...)
			return append(cycle, node)
		}
		position[node] = len(path)
		path = append(path, node)
		next := ""
		for _, candidate := range g.predecessors(node) {
			if remaining[candidate] {
				next = candidate
				break
			}
		}
		if next == "" {
			return path
		}
		node = next
	}
}

// predecessors returns nodes with an edge into name, in insertion order.
func (g *Graph) predecessors(name string) []string {
	var out []string
	for _, node := range g.nodes {
		for _, neighbor := range g.adjacency[node] {
			if neighbor == name {
				out = append(out, node)
				break
			}
		}
	}
	return out
}
