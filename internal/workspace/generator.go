package workspace

import (
	"context"

	"github.com/specialistvlad/workbench/internal/action"
	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// ResolverFunc looks up the source-path resolver for one node. The
// materializer wires it to the run's action-graph cache.
type ResolverFunc func(ctx context.Context, id target.ID) (*action.SourcePathResolver, error)

// GeneratorParams is everything a generator receives at construction: the
// read-only target graph, the descriptor of the workspace it is to
// produce, the run's options, the resolver callback, and the set of tests
// eligible for bundle grouping.
type GeneratorParams struct {
	Graph          *graph.Graph
	Descriptor     *Descriptor
	Options        Options
	Resolver       ResolverFunc
	Tests          target.Set
	GroupableTests target.Set
}

// Generator produces the project files for one workspace. Generate may
// consult and extend the shared state so a dependency project two
// workspaces have in common is written once. It returns the targets that
// must be built before the generated project is usable.
type Generator interface {
	Generate(ctx context.Context, state *State) (target.Set, error)
}

// GeneratorFactory constructs the generator for one root. The
// materializer calls it once per root with that root's params.
type GeneratorFactory func(params GeneratorParams) Generator
