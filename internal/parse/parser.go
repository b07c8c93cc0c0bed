// Package parse turns build files on disk into target graphs. The rest of
// the pipeline consumes it through the Parser interface and stays agnostic
// to the build-file grammar.
package parse

import (
	"context"

	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// Scope describes how much of the repository a parse should cover. A full
// parse evaluates every build file; a seeded parse evaluates only the
// packages of the seed targets and their transitive dependencies, which is
// the primary performance lever of the whole subsystem.
type Scope struct {
	Full      bool
	Seeds     target.Set
	Profiling bool
}

// FullScope returns a Scope covering the whole repository.
func FullScope(profiling bool) Scope {
	return Scope{Full: true, Profiling: profiling}
}

// SeededScope returns a Scope covering only the seeds and their transitive
// dependencies.
func SeededScope(seeds target.Set, profiling bool) Scope {
	return Scope{Seeds: seeds, Profiling: profiling}
}

// Parser produces a target graph for a requested scope.
//
// Implementations fail with a graph.ConstructionError for unresolvable or
// cyclic declarations and with a grammar-level error for malformed build
// files; none of these are retried.
type Parser interface {
	ParseTargetGraph(ctx context.Context, scope Scope) (*graph.Graph, error)
}
