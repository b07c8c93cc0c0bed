package graph

import (
	"fmt"

	"github.com/specialistvlad/workbench/internal/target"
)

// ConstructionError reports that a target graph could not be built. It
// always names the offending target so the diagnostic is actionable.
type ConstructionError struct {
	Target target.ID
	Reason string
	Cause  error
}

func (e *ConstructionError) Error() string {
	msg := fmt.Sprintf("target graph construction failed for %s: %s", e.Target, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// NoSuchNodeError reports a lookup of a target that is not present in the
// graph.
type NoSuchNodeError struct {
	Target target.ID
}

func (e *NoSuchNodeError) Error() string {
	return fmt.Sprintf("target graph does not contain %s", e.Target)
}
