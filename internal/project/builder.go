package project

import (
	"context"

	"github.com/specialistvlad/workbench/internal/ctxlog"
	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/parse"
	"github.com/specialistvlad/workbench/internal/target"
)

// GraphAndTargets is the final slice of the target graph handed to the
// generators: the graph itself, the resolved roots, and the associated test
// targets.
type GraphAndTargets struct {
	Graph *graph.Graph
	Roots target.Set
	Tests target.Set
}

// NeedsFullParse reports whether the initial parse must cover the whole
// repository: whenever the pre-selected kind (explicit flag or configured
// default, empty when neither is set) is anything but Xcode — the Idea
// generator needs whole-repository context, and an undetermined kind might
// turn out to be Idea — or whenever there are no explicit targets to scope
// the parse to.
func NeedsFullParse(preselected Kind, explicit target.Set) bool {
	return preselected != KindXcode || len(explicit) == 0
}

// BuildProjectGraph obtains the initial target graph: a full recursive
// parse when required, otherwise a parse scoped to the explicit targets and
// their transitive dependencies.
func BuildProjectGraph(ctx context.Context, parser parse.Parser, explicit target.Set, needsFullParse, profiling bool) (*graph.Graph, error) {
	if needsFullParse {
		return parser.ParseTargetGraph(ctx, parse.FullScope(profiling))
	}
	return parser.ParseTargetGraph(ctx, parse.SeededScope(explicit, profiling))
}

// AttachTests expands the root set with its associated tests and produces
// the graph the generators actually run against.
//
// Test discovery runs against the current graph. When that graph was not a
// full parse, a second, final parse scoped to roots, tests, and associated
// projects replaces it — a full recursive parse is never issued just to
// discover tests.
func AttachTests(
	ctx context.Context,
	parser parse.Parser,
	g *graph.Graph,
	roots target.Set,
	preds Predicates,
	withTests, withDependencyTests, wasFullParse, profiling bool,
) (GraphAndTargets, error) {
	logger := ctxlog.FromContext(ctx)

	tests := make(target.Set)
	if withTests {
		sourceRoots, err := ReplaceWorkspacesWithSourceTargets(roots, g)
		if err != nil {
			return GraphAndTargets{}, err
		}
		tests, err = AssociatedTestTargets(g, sourceRoots, withDependencyTests)
		if err != nil {
			return GraphAndTargets{}, err
		}
		logger.Debug("Associated tests discovered.", "count", len(tests))

		// The test set for a fully parsed graph is final; a narrow graph
		// must be re-parsed so the discovered tests are present in it.
		if !wasFullParse {
			seeds := target.Union(roots, tests)
			seeds.AddAll(AssociatedProjectTargets(g, roots, preds))
			g, err = parser.ParseTargetGraph(ctx, parse.SeededScope(seeds, profiling))
			if err != nil {
				return GraphAndTargets{}, err
			}
			logger.Debug("Final scoped graph parsed.", "nodes", g.Size())
		}
	}

	return GraphAndTargets{Graph: g, Roots: roots, Tests: tests}, nil
}

// ReplaceWorkspacesWithSourceTargets swaps each workspace-config root for
// its designated source target when one is declared, so test discovery sees
// the target the workspace is actually about. Roots of any other type pass
// through unchanged.
func ReplaceWorkspacesWithSourceTargets(roots target.Set, g *graph.Graph) (target.Set, error) {
	out := make(target.Set, len(roots))
	for id := range roots {
		n, err := g.Get(id)
		if err != nil {
			return nil, err
		}
		if n.Type == graph.XcodeWorkspaceConfig {
			if args, ok := n.Args.(*graph.WorkspaceArgs); ok && args.SrcTarget != nil {
				out.Add(*args.SrcTarget)
				continue
			}
		}
		out.Add(id)
	}
	return out, nil
}

// AssociatedTestTargets finds every test node declaring itself as
// exercising one of the given targets, or — when withDependencyTests is
// set — one of their transitive dependencies.
func AssociatedTestTargets(g *graph.Graph, targets target.Set, withDependencyTests bool) (target.Set, error) {
	covered := make(target.Set, len(targets))
	covered.AddAll(targets)
	if withDependencyTests {
		closure, err := g.TransitiveDeps(targets)
		if err != nil {
			return nil, err
		}
		covered.AddAll(closure)
	}

	tests := make(target.Set)
	for _, n := range g.Nodes() {
		if !n.Type.IsTest() {
			continue
		}
		args, ok := n.Args.(*graph.TestArgs)
		if !ok {
			continue
		}
		for _, exercised := range args.Exercises {
			if covered.Contains(exercised) {
				tests.Add(n.ID)
				break
			}
		}
	}
	return tests, nil
}

// AssociatedProjectTargets finds nodes the kind's associated-project
// predicate accepts that reference one of the roots, so a targeted re-parse
// keeps them in the final graph.
func AssociatedProjectTargets(g *graph.Graph, roots target.Set, preds Predicates) target.Set {
	associated := make(target.Set)
	for _, n := range g.Nodes() {
		if !preds.AssociatedProjects(n) || roots.Contains(n.ID) {
			continue
		}
		for _, dep := range n.Deps {
			if roots.Contains(dep) {
				associated.Add(n.ID)
				break
			}
		}
	}
	return associated
}
