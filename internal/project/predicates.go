package project

import "github.com/specialistvlad/workbench/internal/graph"

// Predicate is a pure function classifying one target node.
type Predicate func(*graph.Node) bool

// Predicates carries the per-kind node classifiers: which nodes count as
// generation roots and which count as associated projects for inclusion.
// Selected once at the top of the pipeline and threaded through by value.
type Predicates struct {
	ProjectRoots       Predicate
	AssociatedProjects Predicate
}

// PredicatesFor returns the classifiers for the chosen IDE kind.
func PredicatesFor(kind Kind) Predicates {
	switch kind {
	case KindXcode:
		return Predicates{
			ProjectRoots: func(n *graph.Node) bool {
				return n.Type == graph.XcodeWorkspaceConfig
			},
			AssociatedProjects: func(n *graph.Node) bool {
				return n.Type.CanHostImplicitWorkspace()
			},
		}
	case KindIdea:
		return Predicates{
			ProjectRoots: func(n *graph.Node) bool {
				return n.Type == graph.ProjectConfig
			},
			AssociatedProjects: func(n *graph.Node) bool {
				return n.Type == graph.ProjectConfig
			},
		}
	default:
		never := func(*graph.Node) bool { return false }
		return Predicates{ProjectRoots: never, AssociatedProjects: never}
	}
}
