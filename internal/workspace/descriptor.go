// Package workspace materializes IDE workspaces from resolved project
// roots: one descriptor and one generator per root, with a shared state
// map deduplicating project emission across roots.
package workspace

import (
	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/project"
	"github.com/specialistvlad/workbench/internal/target"
)

// Descriptor describes one workspace to generate: its primary target,
// extra member and test targets, named scheme overrides, and a display
// name. It is either a declaration's payload verbatim or synthesized
// around a bare binary, bundle or library root.
type Descriptor struct {
	Root              target.ID
	Name              string
	SrcTarget         *target.ID
	ExtraTargets      []target.ID
	ExtraTests        []target.ID
	Schemes           map[string]target.ID
	ActionConfigNames map[string]string
}

// DescriptorFor resolves the workspace descriptor for a root node. An
// xcode_workspace_config node contributes its payload verbatim; a node
// whose type can host an implicit workspace gets a synthesized descriptor
// with itself as the primary target and no extras. Any other type is a
// configuration error.
func DescriptorFor(n *graph.Node) (*Descriptor, error) {
	switch {
	case n.Type == graph.XcodeWorkspaceConfig:
		args, ok := n.Args.(*graph.WorkspaceArgs)
		if !ok {
			return nil, &graph.ConstructionError{Target: n.ID, Reason: "workspace declaration with malformed payload"}
		}
		name := args.WorkspaceName
		if name == "" {
			name = n.ID.Name
		}
		return &Descriptor{
			Root:              n.ID,
			Name:              name,
			SrcTarget:         args.SrcTarget,
			ExtraTargets:      args.ExtraTargets,
			ExtraTests:        args.ExtraTests,
			Schemes:           args.Schemes,
			ActionConfigNames: args.ActionConfigNames,
		}, nil

	case n.Type.CanHostImplicitWorkspace():
		src := n.ID
		return &Descriptor{Root: n.ID, Name: n.ID.Name, SrcTarget: &src}, nil

	default:
		return nil, &project.ConfigError{Message: "target " + n.ID.String() +
			" of type " + string(n.Type) +
			" cannot root a workspace; supported types are apple_binary, apple_bundle, apple_library and xcode_workspace_config"}
	}
}

// Primary returns the target a generator should treat as the workspace's
// main project: the declared source target when present, the root itself
// otherwise.
func (d *Descriptor) Primary() target.ID {
	if d.SrcTarget != nil {
		return *d.SrcTarget
	}
	return d.Root
}
