package cmn

import (
	"bytes"
)

var errorGraphCircular = Err(
	"graph.circulardep",
	"Circular dependency between two nodes was identified", "A: '%s'", "B: '%s'", "Path: '%s'",
)

// GNode a node of the dependency graph
type GNode interface {
	GetKey() string
	GetDependencies() []GNode
}

const (
	nodeVisiting = iota + 1
	nodeVisited
)

// dependency graph (DAG)
type graph struct {
	state map[GNode]int // unvisited (0), visiting, visited
	path  []GNode       // nodes being visited, from the root of the current walk
	list  []GNode       // ALL nodes in this graph, including dependencies, dependencies first
}

// visit adds the node after all of its dependencies and checks if there is a circular dependency
func (g *graph) visit(node GNode) error {
	switch g.state[node] {
	case nodeVisited:
		return nil
	case nodeVisiting:
		start := 0
		for i, n := range g.path {
			if n == node {
				start = i
				break
			}
		}
		cycle := append(append([]GNode{}, g.path[start:]...), node)
		return errorGraphCircular(g.path[len(g.path)-1].GetKey(), node.GetKey(), debugNodes(cycle, " -> "))
	}

	g.state[node] = nodeVisiting
	g.path = append(g.path, node)

	for _, dependency := range node.GetDependencies() {
		if err := g.visit(dependency); err != nil {
			return err
		}
	}

	g.path = g.path[:len(g.path)-1]
	g.state[node] = nodeVisited
	g.list = append(g.list, node)
	return nil
}

// debugNodes debug a path
func debugNodes(nodes []GNode, separator string) string {
	buf := &bytes.Buffer{}
	for i, node := range nodes {
		if i > 0 {
			buf.WriteString(separator)
		}
		buf.WriteString(node.GetKey())
	}
	return buf.String()
}

// GraphResolveDependencies Topological ordering of a directed acyclic graph (DAG).
//
// Every node comes after its dependencies. Nodes without a dependency relation keep the order in
// which they are first reached, walking the input list and each node's dependencies in order.
//
// https://en.wikipedia.org/wiki/Topological_sorting#Depth-first_search
func GraphResolveDependencies(nodes []GNode) ([]GNode, error) {
	g := &graph{state: map[GNode]int{}}
	for _, node := range nodes {
		if err := g.visit(node); err != nil {
			return nil, err
		}
	}
	return g.list, nil
}
