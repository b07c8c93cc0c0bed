// Package testutil provides target-graph fixtures shared by tests across
// the repository.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// T builds a target ID in the anonymous cell.
func T(basePath, name string) target.ID {
	return target.New("", basePath, name)
}

// Library builds an apple_library node.
func Library(id target.ID, deps ...target.ID) *graph.Node {
	return &graph.Node{ID: id, Type: graph.AppleLibrary, Args: &graph.LibraryArgs{}, Deps: deps}
}

// JavaLibrary builds a java_library node.
func JavaLibrary(id target.ID, deps ...target.ID) *graph.Node {
	return &graph.Node{ID: id, Type: graph.JavaLibrary, Args: &graph.LibraryArgs{}, Deps: deps}
}

// Binary builds an apple_binary node.
func Binary(id target.ID, deps ...target.ID) *graph.Node {
	return &graph.Node{ID: id, Type: graph.AppleBinary, Args: &graph.BinaryArgs{}, Deps: deps}
}

// Test builds an apple_test node exercising the given targets. The
// exercised targets are also dependencies, matching what the parser
// produces.
func Test(id target.ID, exercises ...target.ID) *graph.Node {
	return &graph.Node{
		ID:   id,
		Type: graph.AppleTest,
		Args: &graph.TestArgs{Exercises: exercises},
		Deps: exercises,
	}
}

// Workspace builds an xcode_workspace_config node with the given source
// target.
func Workspace(id target.ID, src *target.ID) *graph.Node {
	var deps []target.ID
	if src != nil {
		deps = []target.ID{*src}
	}
	return &graph.Node{
		ID:   id,
		Type: graph.XcodeWorkspaceConfig,
		Args: &graph.WorkspaceArgs{SrcTarget: src},
		Deps: deps,
	}
}

// ProjectConfig builds a project_config node marking src as an Idea module.
func ProjectConfig(id target.ID, src *target.ID) *graph.Node {
	var deps []target.ID
	if src != nil {
		deps = []target.ID{*src}
	}
	return &graph.Node{
		ID:   id,
		Type: graph.ProjectConfig,
		Args: &graph.ProjectConfigArgs{SrcTarget: src},
		Deps: deps,
	}
}

// Genrule builds a genrule node.
func Genrule(id target.ID, out string, deps ...target.ID) *graph.Node {
	return &graph.Node{ID: id, Type: graph.Genrule, Args: &graph.GenruleArgs{Cmd: "gen", Out: out}, Deps: deps}
}

// Halide builds a halide_compile node.
func Halide(id target.ID, funcName string, deps ...target.ID) *graph.Node {
	return &graph.Node{ID: id, Type: graph.HalideCompile, Args: &graph.HalideCompileArgs{FuncName: funcName}, Deps: deps}
}

// MustGraph builds a graph from the nodes, failing the test on any
// construction error.
func MustGraph(t *testing.T, nodes ...*graph.Node) *graph.Graph {
	t.Helper()
	g, err := graph.New(nodes)
	require.NoError(t, err)
	return g
}
