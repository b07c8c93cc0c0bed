// Package project resolves which targets a generated IDE project is rooted
// on: it disambiguates the IDE kind, turns requested targets (or a
// predicate) into the root set, and builds the target-graph slice the
// generators consume.
package project

import (
	"fmt"

	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// Kind names one of the two supported project generators.
type Kind string

const (
	KindXcode Kind = "xcode"
	KindIdea  Kind = "idea"
)

// ParseKind converts a user-supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "xcode":
		return KindXcode, nil
	case "idea", "intellij":
		return KindIdea, nil
	default:
		return "", &ConfigError{Message: fmt.Sprintf("invalid ide value %q, expected 'xcode' or 'idea'", s)}
	}
}

// ConfigError is a user-facing, non-retryable configuration problem:
// ambiguous or missing IDE selection, a mixed-kind target set, or a root of
// an unsupported type.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func configErrorf(format string, args ...any) error {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// InferKind determines which IDE kind to generate for. An explicitly
// selected kind always wins, then a configured default, then a scan over
// the explicit targets; a request mixing Xcode-capable and Idea targets
// fails on the first observed conflict. With nothing to go on, the caller
// is told to select a kind explicitly.
//
// Targets are scanned in sorted order so the first-conflict diagnostic is
// deterministic.
func InferKind(selected, configured Kind, explicit target.Set, g *graph.Graph) (Kind, error) {
	if selected != "" {
		return selected, nil
	}
	if configured != "" {
		return configured, nil
	}

	var guessed Kind
	for _, id := range explicit.Sorted() {
		node, ok := g.Lookup(id)
		if !ok {
			return "", &graph.ConstructionError{Target: id, Reason: "project graph does not contain requested target"}
		}
		observed := KindIdea
		if node.Type.CanHostImplicitWorkspace() || node.Type == graph.XcodeWorkspaceConfig {
			observed = KindXcode
		}
		if guessed == "" {
			guessed = observed
			continue
		}
		if guessed != observed {
			return "", configErrorf(
				"requested targets contain both Xcode and Idea projects; "+
					"cannot choose an ide from the mixed set %v — pass only Xcode targets or only Idea targets",
				explicit.Strings())
		}
	}
	if guessed != "" {
		return guessed, nil
	}

	return "", configErrorf("please specify an ide with --ide or set a persistent default in the project configuration")
}
