package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/parse"
	"github.com/specialistvlad/workbench/internal/target"
)

// FakeParser serves slices of a pre-built graph and records how it was
// called, standing in for the build-file parser in tests.
type FakeParser struct {
	Graph *graph.Graph

	mu         sync.Mutex
	FullParses int
	SeedParses int
	LastSeeds  target.Set
}

// ParseTargetGraph implements parse.Parser.
func (p *FakeParser) ParseTargetGraph(_ context.Context, scope parse.Scope) (*graph.Graph, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if scope.Full {
		p.FullParses++
		return p.Graph, nil
	}
	p.SeedParses++
	p.LastSeeds = scope.Seeds
	return p.Graph.Subgraph(scope.Seeds)
}
