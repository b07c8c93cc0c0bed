package workspace

import (
	"context"
	"fmt"

	"github.com/specialistvlad/workbench/internal/action"
	"github.com/specialistvlad/workbench/internal/ctxlog"
	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// Materializer drives workspace generation: one descriptor and one
// generator per root, sharing a resolver cache and the caller's state
// accumulator across the whole run.
type Materializer struct {
	g       *graph.Graph
	options Options
	factory GeneratorFactory
}

// NewMaterializer builds a materializer over the given graph and options.
func NewMaterializer(g *graph.Graph, options Options, factory GeneratorFactory) *Materializer {
	return &Materializer{g: g, options: options, factory: factory}
}

// Materialize generates a workspace per root, in sorted root order, and
// returns the union of every generator's required build targets. The
// caller owns state for the duration of the run; a generator error aborts
// the run immediately.
func (m *Materializer) Materialize(ctx context.Context, roots, tests target.Set, state *State) (target.Set, error) {
	cache := action.NewResolverCache(m.g)
	groupable := GroupableTests(m.g, tests, m.options.CombineTestBundles)

	required := make(target.Set)
	for _, root := range roots.Sorted() {
		n, err := m.g.Get(root)
		if err != nil {
			return nil, fmt.Errorf("materializing %s: %w", root, err)
		}
		desc, err := DescriptorFor(n)
		if err != nil {
			return nil, err
		}

		gen := m.factory(GeneratorParams{
			Graph:          m.g,
			Descriptor:     desc,
			Options:        m.options,
			Resolver:       cache.ResolverFor,
			Tests:          tests,
			GroupableTests: groupable,
		})
		fromRoot, err := gen.Generate(ctxlog.With(ctx, "workspace_root", root.String()), state)
		if err != nil {
			return nil, fmt.Errorf("generating workspace for %s: %w", root, err)
		}
		required.AddAll(fromRoot)

		ctxlog.FromContext(ctx).Debug("materialized workspace",
			"root", root.String(), "required_targets", len(fromRoot))
	}
	return required, nil
}

// GroupableTests partitions out the tests eligible for combined bundle
// generation. A test is groupable when it declares a bundle destination;
// destination-less tests always get a bundle of their own. With grouping
// disabled the result is empty and every test stands alone.
func GroupableTests(g *graph.Graph, tests target.Set, enabled bool) target.Set {
	out := make(target.Set)
	if !enabled {
		return out
	}
	for id := range tests {
		n, ok := g.Lookup(id)
		if !ok || !n.Type.IsTest() {
			continue
		}
		if args, ok := n.Args.(*graph.TestArgs); ok && args.Destination != "" {
			out.Add(id)
		}
	}
	return out
}
