package parse

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// fileRoot is the gohcl decode target for one BUILD.hcl file. Every rule
// kind in the vocabulary gets its own block list.
type fileRoot struct {
	AppleBinaries  []*binaryBlock    `hcl:"apple_binary,block"`
	AppleBundles   []*bundleBlock    `hcl:"apple_bundle,block"`
	AppleLibraries []*libraryBlock   `hcl:"apple_library,block"`
	AppleTests     []*testBlock      `hcl:"apple_test,block"`
	Workspaces     []*workspaceBlock `hcl:"xcode_workspace_config,block"`
	JavaLibraries  []*libraryBlock   `hcl:"java_library,block"`
	JavaTests      []*testBlock      `hcl:"java_test,block"`
	ProjectConfigs []*projectBlock   `hcl:"project_config,block"`
	Genrules       []*genruleBlock   `hcl:"genrule,block"`
	HalideCompiles []*halideBlock    `hcl:"halide_compile,block"`
}

type binaryBlock struct {
	Name string   `hcl:"name,label"`
	Srcs []string `hcl:"srcs,optional"`
	Deps []string `hcl:"deps,optional"`
}

type bundleBlock struct {
	Name      string   `hcl:"name,label"`
	Binary    string   `hcl:"binary"`
	Extension string   `hcl:"extension,optional"`
	Deps      []string `hcl:"deps,optional"`
}

type libraryBlock struct {
	Name            string   `hcl:"name,label"`
	Srcs            []string `hcl:"srcs,optional"`
	ExportedHeaders []string `hcl:"exported_headers,optional"`
	Deps            []string `hcl:"deps,optional"`
}

type testBlock struct {
	Name        string   `hcl:"name,label"`
	Exercises   []string `hcl:"exercises,optional"`
	Destination string   `hcl:"destination,optional"`
	Deps        []string `hcl:"deps,optional"`
}

type workspaceBlock struct {
	Name              string            `hcl:"name,label"`
	SrcTarget         string            `hcl:"src_target,optional"`
	ExtraTargets      []string          `hcl:"extra_targets,optional"`
	ExtraTests        []string          `hcl:"extra_tests,optional"`
	WorkspaceName     string            `hcl:"workspace_name,optional"`
	Schemes           map[string]string `hcl:"schemes,optional"`
	ActionConfigNames map[string]string `hcl:"action_config_names,optional"`
}

type projectBlock struct {
	Name      string   `hcl:"name,label"`
	SrcTarget string   `hcl:"src_target,optional"`
	Deps      []string `hcl:"deps,optional"`
}

type genruleBlock struct {
	Name string    `hcl:"name,label"`
	Cmd  string    `hcl:"cmd"`
	Out  string    `hcl:"out"`
	Env  cty.Value `hcl:"env,optional"`
	Deps []string  `hcl:"deps,optional"`
}

type halideBlock struct {
	Name     string   `hcl:"name,label"`
	FuncName string   `hcl:"func,optional"`
	Deps     []string `hcl:"deps,optional"`
}

// translate converts the decoded blocks of one package's build file into
// target nodes.
func (r *fileRoot) translate(cell, pkg string) ([]*graph.Node, error) {
	var nodes []*graph.Node
	add := func(name string, typ graph.Type, args any, deps []string) error {
		ids, err := parseRefs(cell, pkg, deps)
		if err != nil {
			return fmt.Errorf("target %q: %w", name, err)
		}
		nodes = append(nodes, &graph.Node{
			ID:   target.New(cell, pkg, name),
			Type: typ,
			Args: args,
			Deps: ids,
		})
		return nil
	}

	for _, b := range r.AppleBinaries {
		if err := add(b.Name, graph.AppleBinary, &graph.BinaryArgs{Srcs: b.Srcs}, b.Deps); err != nil {
			return nil, err
		}
	}
	for _, b := range r.AppleBundles {
		binary, err := parseRef(cell, pkg, b.Binary)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", b.Name, err)
		}
		args := &graph.BundleArgs{Binary: binary, Extension: b.Extension}
		// The bundled binary is a dependency even when not listed in deps.
		if err := add(b.Name, graph.AppleBundle, args, appendMissing(b.Deps, b.Binary)); err != nil {
			return nil, err
		}
	}
	for _, b := range r.AppleLibraries {
		args := &graph.LibraryArgs{Srcs: b.Srcs, ExportedHeaders: b.ExportedHeaders}
		if err := add(b.Name, graph.AppleLibrary, args, b.Deps); err != nil {
			return nil, err
		}
	}
	for _, b := range r.AppleTests {
		args, deps, err := translateTest(cell, pkg, b)
		if err != nil {
			return nil, err
		}
		if err := add(b.Name, graph.AppleTest, args, deps); err != nil {
			return nil, err
		}
	}
	for _, b := range r.Workspaces {
		args, err := translateWorkspace(cell, pkg, b)
		if err != nil {
			return nil, err
		}
		deps := appendMissing(nil, b.ExtraTargets...)
		deps = appendMissing(deps, b.ExtraTests...)
		if b.SrcTarget != "" {
			deps = appendMissing(deps, b.SrcTarget)
		}
		if err := add(b.Name, graph.XcodeWorkspaceConfig, args, deps); err != nil {
			return nil, err
		}
	}
	for _, b := range r.JavaLibraries {
		args := &graph.LibraryArgs{Srcs: b.Srcs}
		if err := add(b.Name, graph.JavaLibrary, args, b.Deps); err != nil {
			return nil, err
		}
	}
	for _, b := range r.JavaTests {
		args, deps, err := translateTest(cell, pkg, b)
		if err != nil {
			return nil, err
		}
		if err := add(b.Name, graph.JavaTest, args, deps); err != nil {
			return nil, err
		}
	}
	for _, b := range r.ProjectConfigs {
		args := &graph.ProjectConfigArgs{}
		deps := b.Deps
		if b.SrcTarget != "" {
			src, err := parseRef(cell, pkg, b.SrcTarget)
			if err != nil {
				return nil, fmt.Errorf("target %q: %w", b.Name, err)
			}
			args.SrcTarget = &src
			deps = appendMissing(deps, b.SrcTarget)
		}
		if err := add(b.Name, graph.ProjectConfig, args, deps); err != nil {
			return nil, err
		}
	}
	for _, b := range r.Genrules {
		args := &graph.GenruleArgs{Cmd: b.Cmd, Out: b.Out, Env: b.Env}
		if err := add(b.Name, graph.Genrule, args, b.Deps); err != nil {
			return nil, err
		}
	}
	for _, b := range r.HalideCompiles {
		funcName := b.FuncName
		if funcName == "" {
			funcName = b.Name
		}
		if err := add(b.Name, graph.HalideCompile, &graph.HalideCompileArgs{FuncName: funcName}, b.Deps); err != nil {
			return nil, err
		}
	}

	return nodes, nil
}

func translateTest(cell, pkg string, b *testBlock) (*graph.TestArgs, []string, error) {
	exercises, err := parseRefs(cell, pkg, b.Exercises)
	if err != nil {
		return nil, nil, fmt.Errorf("target %q: %w", b.Name, err)
	}
	// A test depends on everything it exercises.
	deps := appendMissing(b.Deps, b.Exercises...)
	return &graph.TestArgs{Exercises: exercises, Destination: b.Destination}, deps, nil
}

func translateWorkspace(cell, pkg string, b *workspaceBlock) (*graph.WorkspaceArgs, error) {
	args := &graph.WorkspaceArgs{
		WorkspaceName:     b.WorkspaceName,
		ActionConfigNames: b.ActionConfigNames,
	}
	var err error
	if b.SrcTarget != "" {
		src, refErr := parseRef(cell, pkg, b.SrcTarget)
		if refErr != nil {
			return nil, fmt.Errorf("target %q: %w", b.Name, refErr)
		}
		args.SrcTarget = &src
	}
	if args.ExtraTargets, err = parseRefs(cell, pkg, b.ExtraTargets); err != nil {
		return nil, fmt.Errorf("target %q: %w", b.Name, err)
	}
	if args.ExtraTests, err = parseRefs(cell, pkg, b.ExtraTests); err != nil {
		return nil, fmt.Errorf("target %q: %w", b.Name, err)
	}
	if len(b.Schemes) > 0 {
		args.Schemes = make(map[string]target.ID, len(b.Schemes))
		for scheme, ref := range b.Schemes {
			id, refErr := parseRef(cell, pkg, ref)
			if refErr != nil {
				return nil, fmt.Errorf("target %q, scheme %q: %w", b.Name, scheme, refErr)
			}
			args.Schemes[scheme] = id
		}
	}
	return args, nil
}

// parseRef resolves one dependency reference relative to the declaring
// package. `:name` is shorthand for a target in the same package.
func parseRef(cell, pkg, raw string) (target.ID, error) {
	if strings.HasPrefix(raw, ":") {
		if len(raw) == 1 {
			return target.ID{}, fmt.Errorf("invalid reference %q: missing target name", raw)
		}
		return target.New(cell, pkg, raw[1:]), nil
	}
	id, err := target.Parse(raw)
	if err != nil {
		return target.ID{}, err
	}
	if id.Cell == "" {
		id.Cell = cell
	}
	return id, nil
}

func parseRefs(cell, pkg string, raws []string) ([]target.ID, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	ids := make([]target.ID, 0, len(raws))
	for _, raw := range raws {
		id, err := parseRef(cell, pkg, raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// appendMissing appends refs to deps, skipping any already present.
func appendMissing(deps []string, refs ...string) []string {
	out := append([]string(nil), deps...)
	for _, ref := range refs {
		found := false
		for _, d := range out {
			if d == ref {
				found = true
				break
			}
		}
		if !found {
			out = append(out, ref)
		}
	}
	return out
}
