package action

import (
	"path"
	"strings"

	"github.com/specialistvlad/workbench/internal/target"
)

// SourcePathResolver answers "where does this source reference live on
// disk" for the files of a single project node. References that name a
// target resolve to that target's rule output; plain references resolve
// relative to the declaring package.
type SourcePathResolver struct {
	owner    target.ID
	resolver *Resolver
}

// Owner returns the node this resolver was built for.
func (r *SourcePathResolver) Owner() target.ID {
	return r.owner
}

// Resolve maps one source reference to a repository-relative path. A
// reference containing "//" is a target reference; everything else is a
// file path relative to the owner's package directory.
func (r *SourcePathResolver) Resolve(ref string) (string, error) {
	if !strings.Contains(ref, "//") {
		return path.Join(r.owner.BasePath, ref), nil
	}

	id, err := target.Parse(ref)
	if err != nil {
		return "", err
	}
	rule, err := r.resolver.Rule(id)
	if err != nil {
		return "", err
	}
	return rule.OutputPath(), nil
}

// ResolveAll resolves every reference in order, failing on the first one
// that does not resolve.
func (r *SourcePathResolver) ResolveAll(refs []string) ([]string, error) {
	out := make([]string, len(refs))
	for i, ref := range refs {
		p, err := r.Resolve(ref)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
