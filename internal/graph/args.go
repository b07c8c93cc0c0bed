package graph

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/workbench/internal/target"
)

// BinaryArgs is the argument payload of apple_binary targets.
type BinaryArgs struct {
	Srcs []string
}

// BundleArgs is the argument payload of apple_bundle targets.
type BundleArgs struct {
	Binary    target.ID
	Extension string
}

// LibraryArgs is the argument payload of apple_library and java_library
// targets.
type LibraryArgs struct {
	Srcs            []string
	ExportedHeaders []string
}

// TestArgs is the argument payload of apple_test and java_test targets.
// Exercises lists the targets the test declares itself as covering; it is
// the input of the associated-test predicate.
type TestArgs struct {
	Exercises   []target.ID
	Destination string
}

// WorkspaceArgs is the argument payload of xcode_workspace_config targets,
// and the shape synthesized for roots that host an implicit workspace.
type WorkspaceArgs struct {
	SrcTarget         *target.ID
	ExtraTargets      []target.ID
	ExtraTests        []target.ID
	WorkspaceName     string
	Schemes           map[string]target.ID
	ActionConfigNames map[string]string
}

// ProjectConfigArgs is the argument payload of project_config targets, the
// per-module markers the Idea generator roots on.
type ProjectConfigArgs struct {
	SrcTarget *target.ID
}

// GenruleArgs is the argument payload of genrule targets. Env carries the
// free-form environment object from the declaration; its shape is not fixed
// by the grammar.
type GenruleArgs struct {
	Cmd string
	Out string
	Env cty.Value
}

// HalideCompileArgs is the argument payload of halide_compile targets. A
// halide rule records two output artifacts (a header and an object file)
// and reports the header as its canonical output.
type HalideCompileArgs struct {
	FuncName string
}
