package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/workbench/internal/action"
	"github.com/specialistvlad/workbench/internal/ctxlog"
	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/project"
	"github.com/specialistvlad/workbench/internal/target"
	"github.com/specialistvlad/workbench/internal/workspace"
)

// Run executes the project-generation pipeline: parse the target graph,
// disambiguate the IDE, resolve roots, attach tests, and materialize the
// workspaces, reporting the targets that must be built afterwards.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	explicit, err := parseTargets(a.config.Targets)
	if err != nil {
		return err
	}

	var selected, configured project.Kind
	if a.config.Ide != "" {
		if selected, err = project.ParseKind(a.config.Ide); err != nil {
			return err
		}
	}
	if a.defaults.Ide != "" {
		if configured, err = project.ParseKind(a.defaults.Ide); err != nil {
			return fmt.Errorf("in %s: %w", DefaultsFileName, err)
		}
	}
	preselected := selected
	if preselected == "" {
		preselected = configured
	}

	fullParse := project.NeedsFullParse(preselected, explicit)
	a.logger.Debug("Parsing target graph.", "full", fullParse, "explicit_targets", len(explicit))
	g, err := project.BuildProjectGraph(ctx, a.parser, explicit, fullParse, a.config.Profiling)
	if err != nil {
		return fmt.Errorf("building target graph: %w", err)
	}
	a.logger.Debug("Target graph built.", "nodes", g.Size())

	kind, err := project.InferKind(selected, configured, explicit, g)
	if err != nil {
		return err
	}
	a.logger.Info("Generating project.", "ide", string(kind))

	preds := project.PredicatesFor(kind)
	roots, err := project.ResolveRoots(g, explicit, preds)
	if err != nil {
		return err
	}
	if fullParse {
		roots.AddAll(project.SupplementalIdeaRoots(kind, g, preds))
	}
	a.logger.Debug("Roots resolved.", "count", len(roots))

	gat, err := project.AttachTests(ctx, a.parser, g, roots, preds,
		a.config.WithTests, a.config.WithDependencyTests, fullParse, a.config.Profiling)
	if err != nil {
		return err
	}

	if a.config.DryRun {
		return a.printDryRun(gat.Graph)
	}

	var required target.Set
	switch kind {
	case project.KindXcode:
		required, err = a.materializeXcode(ctx, gat)
	case project.KindIdea:
		required, err = a.generateIdea(ctx, gat)
	}
	if err != nil {
		return err
	}

	for _, raw := range a.defaults.InitialTargets {
		id, err := target.Parse(raw)
		if err != nil {
			return fmt.Errorf("in %s, initial_targets: %w", DefaultsFileName, err)
		}
		required.Add(id)
	}

	a.report(required)
	a.logger.Debug("App.Run method finished.")
	return nil
}

// materializeXcode runs the per-root workspace materializer.
func (a *App) materializeXcode(ctx context.Context, gat project.GraphAndTargets) (target.Set, error) {
	a.logger.Warn("Close a running Xcode instance before opening the generated workspace.")

	options := workspace.Options{
		ReadOnly:               a.config.ReadOnly || a.defaults.ReadOnly,
		IncludeTests:           a.config.WithTests,
		IncludeDependencyTests: a.config.WithDependencyTests,
		CombinedProject:        a.config.CombinedProject,
		BuildWithExternalTool:  a.config.BuildWithExternalTool,
		ExternalToolFlags:      a.config.ExternalToolFlags,
		HeaderMaps:             a.defaults.HeaderMaps,
		CombineTestBundles:     a.config.CombineTestBundles,
	}
	m := workspace.NewMaterializer(gat.Graph, options, workspace.NewPlanGenerator)
	return m.Materialize(ctx, gat.Roots, gat.Tests, workspace.NewState())
}

// generateIdea runs the whole-graph path: one action graph up front, no
// per-node memoization, required targets collected from the rules that
// produce generated sources.
func (a *App) generateIdea(ctx context.Context, gat project.GraphAndTargets) (target.Set, error) {
	cache := action.NewResolverCache(gat.Graph)
	ag, resolver, err := cache.TransformAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, root := range gat.Roots.Sorted() {
		if _, err := resolver.Rule(root); err != nil {
			return nil, err
		}
	}

	required := make(target.Set)
	for _, rule := range ag.Rules() {
		if rule.Type().ProducesGeneratedSources() {
			required.Add(rule.Target())
		}
	}
	return required, nil
}

// printDryRun lists the final graph's nodes without generating anything.
func (a *App) printDryRun(g *graph.Graph) error {
	for _, n := range g.Nodes() {
		if _, err := fmt.Fprintf(a.outW, "%s %s\n", n.ID, n.Type); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) report(required target.Set) {
	if len(required) == 0 {
		fmt.Fprintln(a.outW, "Project generated; no targets need building.")
		return
	}
	fmt.Fprintln(a.outW, "Project generated; build these targets before opening it:")
	for _, s := range required.Strings() {
		fmt.Fprintf(a.outW, "  %s\n", s)
	}
}

func parseTargets(raws []string) (target.Set, error) {
	set := make(target.Set, len(raws))
	for _, raw := range raws {
		id, err := target.Parse(raw)
		if err != nil {
			return nil, err
		}
		set.Add(id)
	}
	return set, nil
}
