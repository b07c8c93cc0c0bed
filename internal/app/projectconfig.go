package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultsFileName is the per-repository configuration file, read from the
// repository root. It carries persistent defaults so users do not repeat
// them on every invocation.
const DefaultsFileName = "workbench.hcl"

// Defaults are the persistent project-level settings. Zero values mean the
// setting was not configured.
type Defaults struct {
	Ide            string
	ReadOnly       bool
	HeaderMaps     bool
	InitialTargets []string
}

type defaultsRoot struct {
	Project *defaultsProjectBlock `hcl:"project,block"`
}

type defaultsProjectBlock struct {
	Ide            string   `hcl:"ide,optional"`
	ReadOnly       bool     `hcl:"read_only,optional"`
	HeaderMaps     bool     `hcl:"header_maps,optional"`
	InitialTargets []string `hcl:"initial_targets,optional"`
}

// LoadDefaults reads the repository's defaults file. A missing file is not
// an error; it yields empty defaults.
func LoadDefaults(repoRoot string) (*Defaults, error) {
	path := filepath.Join(repoRoot, DefaultsFileName)
	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Defaults{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", DefaultsFileName, err)
	}

	file, diags := hclparse.NewParser().ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", DefaultsFileName, diags)
	}
	var root defaultsRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", DefaultsFileName, diags)
	}
	if root.Project == nil {
		return &Defaults{}, nil
	}
	return &Defaults{
		Ide:            root.Project.Ide,
		ReadOnly:       root.Project.ReadOnly,
		HeaderMaps:     root.Project.HeaderMaps,
		InitialTargets: root.Project.InitialTargets,
	}, nil
}
