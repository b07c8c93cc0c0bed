// Package target defines the build target identifier used as the key for
// every node in the target graph. Identifiers are immutable, comparable,
// and totally ordered so that sets of them can be iterated deterministically.
package target

import (
	"fmt"
	"sort"
	"strings"
)

// ID is the structured representation of a unique build target identifier.
// Its canonical string form is `cell//base/path:name#flavor1,flavor2`.
//
// Flavors holds the flavor qualifiers in canonical form (sorted,
// comma-joined, empty when unflavored) so the whole struct stays comparable
// and usable as a map key.
type ID struct {
	Cell     string
	BasePath string
	Name     string
	Flavors  string
}

// New builds an ID from its parts, normalizing the flavor set.
func New(cell, basePath, name string, flavors ...string) ID {
	sorted := append([]string(nil), flavors...)
	sort.Strings(sorted)
	return ID{
		Cell:     cell,
		BasePath: basePath,
		Name:     name,
		Flavors:  strings.Join(sorted, ","),
	}
}

// String serializes the ID into its canonical string representation.
func (id ID) String() string {
	var sb strings.Builder
	sb.WriteString(id.Cell)
	sb.WriteString("//")
	sb.WriteString(id.BasePath)
	sb.WriteRune(':')
	sb.WriteString(id.Name)
	if id.Flavors != "" {
		sb.WriteRune('#')
		sb.WriteString(id.Flavors)
	}
	return sb.String()
}

// FlavorList returns the flavor qualifiers as a sorted slice.
func (id ID) FlavorList() []string {
	if id.Flavors == "" {
		return nil
	}
	return strings.Split(id.Flavors, ",")
}

// IsRepoRoot reports whether the target is declared at the repository root.
func (id ID) IsRepoRoot() bool {
	return id.BasePath == ""
}

// Compare defines a total order over IDs: cell, then base path, then name,
// then flavors.
func (id ID) Compare(other ID) int {
	if c := strings.Compare(id.Cell, other.Cell); c != 0 {
		return c
	}
	if c := strings.Compare(id.BasePath, other.BasePath); c != 0 {
		return c
	}
	if c := strings.Compare(id.Name, other.Name); c != 0 {
		return c
	}
	return strings.Compare(id.Flavors, other.Flavors)
}

// Less reports whether id orders before other.
func (id ID) Less(other ID) bool {
	return id.Compare(other) < 0
}

// Parse creates an ID by parsing its canonical string representation.
// The cell prefix and the flavor suffix are optional; the `//` separator
// and a non-empty name are not.
func Parse(raw string) (ID, error) {
	if raw == "" {
		return ID{}, fmt.Errorf("target identifier cannot be empty")
	}

	cell, rest, ok := strings.Cut(raw, "//")
	if !ok {
		return ID{}, fmt.Errorf("invalid target %q: missing '//' separator", raw)
	}

	var flavors []string
	if rest2, flavorPart, hasFlavors := strings.Cut(rest, "#"); hasFlavors {
		rest = rest2
		if flavorPart == "" {
			return ID{}, fmt.Errorf("invalid target %q: empty flavor list", raw)
		}
		for _, f := range strings.Split(flavorPart, ",") {
			if f == "" {
				return ID{}, fmt.Errorf("invalid target %q: empty flavor", raw)
			}
			flavors = append(flavors, f)
		}
	}

	basePath, name, ok := strings.Cut(rest, ":")
	if !ok || name == "" {
		return ID{}, fmt.Errorf("invalid target %q: missing target name after ':'", raw)
	}
	if strings.Contains(name, ":") {
		return ID{}, fmt.Errorf("invalid target %q: multiple ':' separators", raw)
	}
	if err := validateBasePath(basePath); err != nil {
		return ID{}, fmt.Errorf("invalid target %q: %w", raw, err)
	}

	return New(cell, basePath, name, flavors...), nil
}

func validateBasePath(basePath string) error {
	if basePath == "" {
		return nil
	}
	if strings.HasPrefix(basePath, "/") || strings.HasSuffix(basePath, "/") {
		return fmt.Errorf("base path %q must not begin or end with '/'", basePath)
	}
	for _, seg := range strings.Split(basePath, "/") {
		switch seg {
		case "":
			return fmt.Errorf("base path %q contains empty segment", basePath)
		case ".", "..":
			return fmt.Errorf("base path %q contains relative segment %q", basePath, seg)
		}
	}
	return nil
}
