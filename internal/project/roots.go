package project

import (
	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// ResolveRoots turns the requested targets into the root set of the
// generated project. A non-empty explicit set is used verbatim after
// checking every member exists in the graph; an empty set means roots are
// discovered by filtering every node through the kind's roots predicate.
//
// Pure function of its inputs: the returned set is freshly allocated and
// the graph is never mutated.
func ResolveRoots(g *graph.Graph, explicit target.Set, preds Predicates) (target.Set, error) {
	if len(explicit) > 0 {
		roots := make(target.Set, len(explicit))
		for id := range explicit {
			if _, ok := g.Lookup(id); !ok {
				return nil, &graph.ConstructionError{Target: id, Reason: "project graph does not contain requested target"}
			}
			roots.Add(id)
		}
		return roots, nil
	}
	return RootsFromPredicate(g, preds.ProjectRoots), nil
}

// RootsFromPredicate returns every node satisfying the predicate.
// Evaluation is independent per node, so the result does not depend on
// iteration order.
func RootsFromPredicate(g *graph.Graph, pred Predicate) target.Set {
	roots := make(target.Set)
	for _, n := range g.Nodes() {
		if pred(n) {
			roots.Add(n.ID)
		}
	}
	return roots
}

// SupplementalIdeaRoots computes the extra roots the Idea generator needs
// when operating on explicit targets with full-graph context: every node
// that both satisfies the roots predicate and is declared at the repository
// root. Other kinds get an empty set.
func SupplementalIdeaRoots(kind Kind, g *graph.Graph, preds Predicates) target.Set {
	if kind != KindIdea {
		return make(target.Set)
	}
	return RootsFromPredicate(g, func(n *graph.Node) bool {
		return n.ID.IsRepoRoot() && preds.ProjectRoots(n)
	})
}
