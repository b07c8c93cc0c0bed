package parse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/workbench/internal/ctxlog"
	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// BuildFileName is the file every package directory declares its targets in.
const BuildFileName = "BUILD.hcl"

// parsedFileCacheSize bounds the per-parser build-file cache. Eviction is
// safe: a miss only costs re-reading one file.
const parsedFileCacheSize = 1024

// HCL is the build-file parser. It evaluates BUILD.hcl files under a single
// repository root (one cell), fanning file evaluation out over a bounded
// worker pool and caching parsed files so the targeted second parse of a
// run does not re-evaluate anything.
type HCL struct {
	root    string
	cell    string
	workers int
	cache   *lru.Cache[string, []*graph.Node]
}

// NewHCL creates a parser for the repository rooted at root. The workers
// limit is an external configuration input; values below 1 are rejected.
func NewHCL(root, cell string, workers int) (*HCL, error) {
	if workers < 1 {
		return nil, fmt.Errorf("parser worker count must be at least 1, got %d", workers)
	}
	cache, err := lru.New[string, []*graph.Node](parsedFileCacheSize)
	if err != nil {
		return nil, err
	}
	return &HCL{root: root, cell: cell, workers: workers, cache: cache}, nil
}

// ParseTargetGraph implements Parser.
func (p *HCL) ParseTargetGraph(ctx context.Context, scope Scope) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	var g *graph.Graph
	var err error
	if scope.Full {
		g, err = p.parseFull(ctx, scope)
	} else {
		g, err = p.parseSeeded(ctx, scope)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Target graph parsed.",
		"full", scope.Full, "nodes", g.Size(), "elapsed", time.Since(start))
	return g, nil
}

// parseFull evaluates every build file under the repository root.
func (p *HCL) parseFull(ctx context.Context, scope Scope) (*graph.Graph, error) {
	pkgs, err := p.discoverPackages()
	if err != nil {
		return nil, err
	}
	byPkg, err := p.parsePackages(ctx, pkgs, scope.Profiling)
	if err != nil {
		return nil, err
	}
	return graph.New(flatten(byPkg))
}

// parseSeeded evaluates only the packages of the seed targets, then chases
// dependency edges into packages not yet evaluated until the closure is
// complete, and finally restricts the result to nodes reachable from the
// seeds.
func (p *HCL) parseSeeded(ctx context.Context, scope Scope) (*graph.Graph, error) {
	if len(scope.Seeds) == 0 {
		return nil, fmt.Errorf("seeded parse requires at least one seed target")
	}

	parsed := make(map[string][]*graph.Node)
	frontier := make(map[string]struct{})
	for seed := range scope.Seeds {
		if err := p.checkCell(seed); err != nil {
			return nil, err
		}
		frontier[seed.BasePath] = struct{}{}
	}

	for len(frontier) > 0 {
		pkgs := make([]string, 0, len(frontier))
		for pkg := range frontier {
			pkgs = append(pkgs, pkg)
		}
		byPkg, err := p.parsePackages(ctx, pkgs, scope.Profiling)
		if err != nil {
			return nil, err
		}

		frontier = make(map[string]struct{})
		for pkg, nodes := range byPkg {
			parsed[pkg] = nodes
			for _, n := range nodes {
				for _, dep := range n.Deps {
					if err := p.checkCell(dep); err != nil {
						return nil, &graph.ConstructionError{Target: n.ID, Reason: "unresolvable dependency", Cause: err}
					}
					if _, done := parsed[dep.BasePath]; !done {
						frontier[dep.BasePath] = struct{}{}
					}
				}
			}
		}
		for pkg := range parsed {
			delete(frontier, pkg)
		}
	}

	g, err := graph.New(flatten(parsed))
	if err != nil {
		return nil, err
	}
	return g.Subgraph(scope.Seeds)
}

// parsePackages evaluates the build file of each package on a bounded
// worker pool.
func (p *HCL) parsePackages(ctx context.Context, pkgs []string, profiling bool) (map[string][]*graph.Node, error) {
	var mu sync.Mutex
	byPkg := make(map[string][]*graph.Node, len(pkgs))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(p.workers)
	for _, pkg := range pkgs {
		pkg := pkg
		grp.Go(func() error {
			nodes, err := p.parsePackage(ctx, pkg, profiling)
			if err != nil {
				return err
			}
			mu.Lock()
			byPkg[pkg] = nodes
			mu.Unlock()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return byPkg, nil
}

// parsePackage evaluates one package's build file, consulting the
// parsed-file cache first.
func (p *HCL) parsePackage(ctx context.Context, pkg string, profiling bool) ([]*graph.Node, error) {
	path := filepath.Join(p.root, filepath.FromSlash(pkg), BuildFileName)
	if nodes, ok := p.cache.Get(path); ok {
		return nodes, nil
	}

	start := time.Now()
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no build file for package %q: %w", pkg, err)
	}

	hclFile, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("malformed build file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("malformed build file %s: %w", path, diags)
	}

	nodes, err := root.translate(p.cell, pkg)
	if err != nil {
		return nil, fmt.Errorf("build file %s: %w", path, err)
	}

	if profiling {
		ctxlog.FromContext(ctx).Debug("Build file evaluated.",
			"file", path, "targets", len(nodes), "elapsed", time.Since(start))
	}
	p.cache.Add(path, nodes)
	return nodes, nil
}

// discoverPackages walks the repository root collecting every directory
// that holds a build file, as a slash-separated package path.
func (p *HCL) discoverPackages() ([]string, error) {
	var pkgs []string
	err := filepath.WalkDir(p.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != BuildFileName {
			return nil
		}
		rel, err := filepath.Rel(p.root, filepath.Dir(path))
		if err != nil {
			return err
		}
		if rel == "." {
			rel = ""
		}
		pkgs = append(pkgs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}

// checkCell rejects targets naming a cell this parser does not own.
func (p *HCL) checkCell(id target.ID) error {
	if id.Cell != p.cell {
		return fmt.Errorf("unknown cell %q in target %s", id.Cell, id)
	}
	return nil
}

func flatten(byPkg map[string][]*graph.Node) []*graph.Node {
	var nodes []*graph.Node
	for _, pkgNodes := range byPkg {
		nodes = append(nodes, pkgNodes...)
	}
	return nodes
}
