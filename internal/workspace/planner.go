package workspace

import (
	"context"
	"path"

	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// PlanGenerator is the built-in generator. It does not emit IDE project
// file formats; it plans the workspace: one project entry per member
// target claimed in the shared state, plus the set of targets that must
// be built before the planned projects reference real files.
type PlanGenerator struct {
	params GeneratorParams
}

// NewPlanGenerator is a GeneratorFactory.
func NewPlanGenerator(params GeneratorParams) Generator {
	return &PlanGenerator{params: params}
}

// Generate walks the workspace's member closure, claims one project path
// per project-capable member, and reports generated-source producers in
// the closure as required build targets. Members another root already
// claimed are skipped, so shared dependency projects are planned once.
func (p *PlanGenerator) Generate(ctx context.Context, state *State) (target.Set, error) {
	members, err := p.memberClosure()
	if err != nil {
		return nil, err
	}

	required := make(target.Set)
	for _, id := range members.Sorted() {
		n, err := p.params.Graph.Get(id)
		if err != nil {
			return nil, err
		}
		if n.Type.ProducesGeneratedSources() {
			required.Add(id)
			continue
		}
		if !projectCapable(n.Type) {
			continue
		}
		if !state.Claim(projectPath(id), id) {
			continue
		}
		if err := p.planProject(ctx, n); err != nil {
			return nil, err
		}
	}
	return required, nil
}

// memberClosure collects the primary target, the descriptor's extras, and
// the workspace's tests, plus all of their transitive dependencies.
func (p *PlanGenerator) memberClosure() (target.Set, error) {
	seeds := target.NewSet(p.params.Descriptor.Primary())
	for _, id := range p.params.Descriptor.ExtraTargets {
		seeds.Add(id)
	}
	if p.params.Options.IncludeTests {
		for _, id := range p.params.Descriptor.ExtraTests {
			seeds.Add(id)
		}
		seeds.AddAll(p.params.Tests)
	}

	deps, err := p.params.Graph.TransitiveDeps(seeds)
	if err != nil {
		return nil, err
	}
	return target.Union(seeds, deps), nil
}

// planProject resolves the project's declared sources through the run's
// resolver cache, so every reference is checked against a real rule
// output before the plan is reported usable.
func (p *PlanGenerator) planProject(ctx context.Context, n *graph.Node) error {
	resolver, err := p.params.Resolver(ctx, n.ID)
	if err != nil {
		return err
	}
	for _, ref := range declaredSources(n) {
		if _, err := resolver.Resolve(ref); err != nil {
			return err
		}
	}
	return nil
}

func declaredSources(n *graph.Node) []string {
	switch args := n.Args.(type) {
	case *graph.BinaryArgs:
		return args.Srcs
	case *graph.LibraryArgs:
		return args.Srcs
	default:
		return nil
	}
}

func projectCapable(t graph.Type) bool {
	return t.CanHostImplicitWorkspace() || t.IsTest()
}

func projectPath(id target.ID) string {
	return path.Join(id.BasePath, id.Name+".xcodeproj")
}
