// Package action derives buildable-rule graphs from target graphs and
// resolves where each rule's output lives on disk.
//
// Action graphs are derived data: recomputed from a target-graph slice on
// demand, never persisted, and safe to discard once their resolver has been
// consulted.
package action

import (
	"fmt"
	"path"

	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// genDir is the root of generated rule outputs, relative to the repository.
const genDir = "out/gen"

// BuildContext carries the environment a rule needs to produce its steps.
type BuildContext struct {
	OutputDir string
}

// Step is one concrete build action. Execution is the build engine's job;
// this core only carries the description.
type Step struct {
	Description string
	Shell       string
}

// Rule is a concrete buildable rule instance. A rule declares its recorded
// output artifacts before execution, produces an ordered sequence of build
// steps given a build context, and reports a single canonical output path.
type Rule interface {
	Target() target.ID
	Type() graph.Type
	Deps() []target.ID
	OutputPath() string
	RecordedOutputs() []string
	Steps(bctx BuildContext) []Step
}

// baseRule implements the bookkeeping shared by all rule kinds.
type baseRule struct {
	id       target.ID
	typ      graph.Type
	deps     []target.ID
	output   string
	recorded []string
}

func (r *baseRule) Target() target.ID         { return r.id }
func (r *baseRule) Type() graph.Type          { return r.typ }
func (r *baseRule) Deps() []target.ID         { return r.deps }
func (r *baseRule) OutputPath() string        { return r.output }
func (r *baseRule) RecordedOutputs() []string { return r.recorded }
func (r *baseRule) Steps(BuildContext) []Step { return nil }

// genrule runs a user-declared command producing one output artifact.
type genrule struct {
	baseRule
	cmd string
}

func (r *genrule) Steps(bctx BuildContext) []Step {
	return []Step{{
		Description: fmt.Sprintf("genrule %s", r.id),
		Shell:       fmt.Sprintf("cd %s && %s", bctx.OutputDir, r.cmd),
	}}
}

// halideCompile invokes the Halide ahead-of-time compiler. It records two
// output artifacts, a header and an object file, and reports the header as
// its canonical output.
type halideCompile struct {
	baseRule
	funcName string
}

func (r *halideCompile) Steps(bctx BuildContext) []Step {
	return []Step{{
		Description: fmt.Sprintf("halide compile %s", r.funcName),
		Shell:       fmt.Sprintf("halide-aot %s -o %s", r.funcName, bctx.OutputDir),
	}}
}

func outputRoot(id target.ID) string {
	return path.Join(genDir, id.BasePath, id.Name)
}
