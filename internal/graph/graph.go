// Package graph holds the parsed target graph: an immutable DAG of target
// declarations keyed by target identifier.
//
// Two graph instances may coexist during a single run (a broad one used for
// discovery and a narrow one used for generation); neither is ever mutated
// after construction, so they are safe to share across concurrent readers
// without locking.
package graph

import (
	"sort"

	"github.com/specialistvlad/workbench/internal/target"
)

// Node is the parsed declaration for one target: its type tag, the declared
// argument payload specific to that type, and the declared dependencies in
// declaration order. Nodes are immutable once parsed and owned by their
// graph.
type Node struct {
	ID   target.ID
	Type Type
	Args any
	Deps []target.ID
}

// Graph is a directed acyclic graph of target nodes. Construction validates
// that every declared dependency resolves to a node in the same graph and
// that no declaration cycle exists; both are construction-time errors, so a
// built Graph is always consistent.
type Graph struct {
	nodes map[target.ID]*Node
	order []target.ID
}

// New builds a graph from the given nodes. It fails with a
// ConstructionError naming the offending target when a dependency does not
// resolve or a declaration cycle is found.
func New(nodes []*Node) (*Graph, error) {
	g := &Graph{nodes: make(map[target.ID]*Node, len(nodes))}
	for _, n := range nodes {
		if _, ok := g.nodes[n.ID]; ok {
			return nil, &ConstructionError{Target: n.ID, Reason: "declared more than once"}
		}
		g.nodes[n.ID] = n
	}

	for _, n := range g.nodes {
		for _, dep := range n.Deps {
			if _, ok := g.nodes[dep]; !ok {
				return nil, &ConstructionError{
					Target: n.ID,
					Reason: "unresolvable dependency",
					Cause:  &NoSuchNodeError{Target: dep},
				}
			}
		}
	}

	if err := g.detectCycles(); err != nil {
		return nil, err
	}

	g.order = make([]target.ID, 0, len(g.nodes))
	for id := range g.nodes {
		g.order = append(g.order, id)
	}
	sort.Slice(g.order, func(i, j int) bool { return g.order[i].Less(g.order[j]) })

	return g, nil
}

// Size returns the number of nodes in the graph.
func (g *Graph) Size() int {
	return len(g.nodes)
}

// Lookup retrieves a node by ID, reporting whether it is present.
func (g *Graph) Lookup(id target.ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Get retrieves a node by ID, failing with a NoSuchNodeError when absent.
func (g *Graph) Get(id target.ID) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, &NoSuchNodeError{Target: id}
	}
	return n, nil
}

// Nodes returns every node in the graph, ordered by target ID so iteration
// is deterministic.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// TargetIDs returns the set of all target IDs present in the graph.
func (g *Graph) TargetIDs() target.Set {
	s := make(target.Set, len(g.nodes))
	for id := range g.nodes {
		s.Add(id)
	}
	return s
}

// TransitiveDeps returns the dependency closure of the given seed targets,
// excluding the seeds themselves. Every seed must be present in the graph.
func (g *Graph) TransitiveDeps(seeds target.Set) (target.Set, error) {
	closure := make(target.Set)
	var walk func(id target.ID) error
	walk = func(id target.ID) error {
		n, err := g.Get(id)
		if err != nil {
			return err
		}
		for _, dep := range n.Deps {
			if closure.Contains(dep) {
				continue
			}
			closure.Add(dep)
			if err := walk(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for seed := range seeds {
		if err := walk(seed); err != nil {
			return nil, err
		}
	}
	for seed := range seeds {
		delete(closure, seed)
	}
	return closure, nil
}

// Subgraph extracts the induced subgraph over the seed targets and their
// transitive dependencies. The induced subgraph of any present node is
// always defined and finite because the graph is acyclic by construction.
func (g *Graph) Subgraph(seeds target.Set) (*Graph, error) {
	keep := make(target.Set, len(seeds))
	var walk func(id target.ID) error
	walk = func(id target.ID) error {
		if keep.Contains(id) {
			return nil
		}
		n, err := g.Get(id)
		if err != nil {
			return err
		}
		keep.Add(id)
		for _, dep := range n.Deps {
			if err := walk(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for seed := range seeds {
		if err := walk(seed); err != nil {
			return nil, err
		}
	}

	nodes := make([]*Node, 0, len(keep))
	for id := range keep {
		nodes = append(nodes, g.nodes[id])
	}
	return New(nodes)
}

// detectCycles runs a depth-first search over dependency edges using the
// classic temporary/permanent marking scheme. The first node found on a
// cycle is reported in the error.
func (g *Graph) detectCycles() error {
	permanent := make(map[target.ID]bool)
	temporary := make(map[target.ID]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if permanent[n.ID] {
			return nil
		}
		if temporary[n.ID] {
			return &ConstructionError{Target: n.ID, Reason: "cyclic declaration"}
		}

		temporary[n.ID] = true
		for _, dep := range n.Deps {
			if err := visit(g.nodes[dep]); err != nil {
				return err
			}
		}
		delete(temporary, n.ID)
		permanent[n.ID] = true

		return nil
	}

	for _, n := range g.nodes {
		if !permanent[n.ID] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}
