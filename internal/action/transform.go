package action

import (
	"fmt"
	"path"
	"sort"

	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// Graph is the buildable-rule graph produced by transforming a target
// graph. Like its source it is immutable once built.
type Graph struct {
	order []Rule
}

// Rules returns every rule, ordered by target ID.
func (g *Graph) Rules() []Rule {
	return g.order
}

// Size returns the number of rules in the graph.
func (g *Graph) Size() int {
	return len(g.order)
}

// Resolver maps target identifiers to their concrete rule instances.
type Resolver struct {
	rules map[target.ID]Rule
}

// Rule retrieves the rule for id.
func (r *Resolver) Rule(id target.ID) (Rule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, fmt.Errorf("action graph does not contain a rule for %s", id)
	}
	return rule, nil
}

// Transformer converts target graphs (or subgraphs) into action graphs.
// It is stateless and safe for concurrent use; one instance is shared by
// every cache miss of a run.
type Transformer struct{}

// NewTransformer creates the target-graph-to-action-graph transformer.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform builds one rule per node of the input graph. It is a pure
// function; the only failure mode is a malformed node whose argument
// payload does not match its declared type.
func (t *Transformer) Transform(g *graph.Graph) (*Graph, *Resolver, error) {
	rules := make(map[target.ID]Rule, g.Size())
	for _, n := range g.Nodes() {
		rule, err := ruleFor(n)
		if err != nil {
			return nil, nil, err
		}
		rules[n.ID] = rule
	}

	order := make([]Rule, 0, len(rules))
	for _, r := range rules {
		order = append(order, r)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Target().Less(order[j].Target()) })

	return &Graph{order: order}, &Resolver{rules: rules}, nil
}

func ruleFor(n *graph.Node) (Rule, error) {
	base := baseRule{id: n.ID, typ: n.Type, deps: n.Deps}

	switch n.Type {
	case graph.Genrule:
		args, ok := n.Args.(*graph.GenruleArgs)
		if !ok {
			return nil, malformedNode(n)
		}
		base.output = path.Join(outputRoot(n.ID), args.Out)
		base.recorded = []string{base.output}
		return &genrule{baseRule: base, cmd: args.Cmd}, nil

	case graph.HalideCompile:
		args, ok := n.Args.(*graph.HalideCompileArgs)
		if !ok {
			return nil, malformedNode(n)
		}
		header := path.Join(outputRoot(n.ID), args.FuncName+".h")
		object := path.Join(outputRoot(n.ID), args.FuncName+".o")
		base.output = header
		base.recorded = []string{header, object}
		return &halideCompile{baseRule: base, funcName: args.FuncName}, nil

	default:
		base.output = outputRoot(n.ID)
		base.recorded = []string{base.output}
		return &base, nil
	}
}

func malformedNode(n *graph.Node) error {
	return fmt.Errorf("malformed node %s: argument payload %T does not match type %s", n.ID, n.Args, n.Type)
}
