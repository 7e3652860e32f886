// Package lca evaluates life-cycle assessment pathways as explicit formula
// graphs. Each node is a pure govaluate expression over declared inputs and
// other nodes; a graph is ordered once at compile time and can then be
// evaluated concurrently with different inputs.
package lca

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/rshade/ghgcalc/internal/activity"
	"github.com/rshade/ghgcalc/internal/logging"
)

// Stage groups nodes by pathway component.
type Stage string

// Pathway stages.
const (
	StageCultivation Stage = "cultivation"
	StageLandUse     Stage = "land_use_change"
	StageTransport   Stage = "transport"
	StageProcessing  Stage = "processing"
	StageAllocation  Stage = "allocation"
	StageAggregation Stage = "aggregation"
)

// Input declares a leaf value a graph reads.
type Input struct {
	Name     string  `json:"name"`
	Stage    Stage   `json:"stage"`
	Unit     string  `json:"unit"`
	Default  float64 `json:"default"`
	Required bool    `json:"required,omitempty"`
	// FactorID names the factor-store entry that supplies the default.
	FactorID string `json:"factor_id,omitempty"`
}

// Node is a named intermediate quantity.
type Node struct {
	Name       string `json:"name"`
	Stage      Stage  `json:"stage"`
	Unit       string `json:"unit"`
	Expression string `json:"expression"`
}

// Graph is a compiled, immutable formula graph.
type Graph struct {
	inputs     map[string]Input
	inputNames []string
	nodes      map[string]Node
	deps       map[string][]string
	order      []string
}

// Compile checks every expression, resolves dependencies and orders the
// nodes topologically. References to undeclared names and cycles are
// rejected here so that evaluation can never fail on graph shape.
func Compile(inputs []Input, nodes []Node) (*Graph, error) {
	g := &Graph{
		inputs: make(map[string]Input, len(inputs)),
		nodes:  make(map[string]Node, len(nodes)),
		deps:   make(map[string][]string, len(nodes)),
	}
	for _, in := range inputs {
		if in.Name == "" {
			return nil, fmt.Errorf("%w: input with empty name", ErrBadExpression)
		}
		if _, dup := g.inputs[in.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, in.Name)
		}
		g.inputs[in.Name] = in
		g.inputNames = append(g.inputNames, in.Name)
	}
	for _, n := range nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("%w: node with empty name", ErrBadExpression)
		}
		_, dupNode := g.nodes[n.Name]
		_, dupInput := g.inputs[n.Name]
		if dupNode || dupInput {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, n.Name)
		}
		g.nodes[n.Name] = n
	}

	check := (&evaluator{ctx: context.Background()}).functions()
	for _, n := range nodes {
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(n.Expression, check)
		if err != nil {
			return nil, fmt.Errorf("%w: node %s: %v", ErrBadExpression, n.Name, err)
		}
		deps := uniqueSorted(expr.Vars())
		for _, d := range deps {
			_, isInput := g.inputs[d]
			_, isNode := g.nodes[d]
			if !isInput && !isNode {
				return nil, fmt.Errorf("%w: node %s references %q", ErrUndefinedReference, n.Name, d)
			}
		}
		g.deps[n.Name] = deps
	}

	order, err := sortNodes(nodes, g.deps)
	if err != nil {
		return nil, err
	}
	g.order = order
	return g, nil
}

// sortNodes orders nodes so every node follows the nodes it reads. Ties
// keep declaration order.
func sortNodes(nodes []Node, deps map[string][]string) ([]string, error) {
	dg := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(nodes))
	for i, n := range nodes {
		ids[n.Name] = int64(i)
		dg.AddNode(simple.Node(i))
	}
	for _, n := range nodes {
		to := ids[n.Name]
		for _, d := range deps[n.Name] {
			from, ok := ids[d]
			if !ok {
				continue
			}
			if from == to {
				return nil, fmt.Errorf("%w: %s references itself", ErrCycle, n.Name)
			}
			dg.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}

	sorted, err := topo.SortStabilized(dg, func(ns []graph.Node) {
		sort.Slice(ns, func(i, j int) bool { return ns[i].ID() < ns[j].ID() })
	})
	if err != nil {
		var cycles topo.Unorderable
		if errors.As(err, &cycles) {
			var parts []string
			for _, component := range cycles {
				names := make([]string, 0, len(component))
				for _, gn := range component {
					names = append(names, nodes[gn.ID()].Name)
				}
				sort.Strings(names)
				parts = append(parts, strings.Join(names, " -> "))
			}
			return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(parts, "; "))
		}
		return nil, fmt.Errorf("%w: %v", ErrCycle, err)
	}

	order := make([]string, 0, len(sorted))
	for _, gn := range sorted {
		order = append(order, nodes[gn.ID()].Name)
	}
	return order, nil
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Order returns node names in evaluation order.
func (g *Graph) Order() []string {
	return append([]string(nil), g.order...)
}

// Inputs returns the declared inputs in declaration order.
func (g *Graph) Inputs() []Input {
	out := make([]Input, 0, len(g.inputNames))
	for _, name := range g.inputNames {
		out = append(out, g.inputs[name])
	}
	return out
}

// Input returns one declared input.
func (g *Graph) Input(name string) (Input, bool) {
	in, ok := g.inputs[name]
	return in, ok
}

// Node returns one node.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns every node in evaluation order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Dependencies lists the inputs and nodes a node reads, sorted by name.
func (g *Graph) Dependencies(name string) ([]string, error) {
	deps, ok := g.deps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	return append([]string(nil), deps...), nil
}

// Evaluation holds the value of every input and node for one run.
type Evaluation struct {
	values  map[string]float64
	order   []string
	guarded []string
}

// Value returns the value of an input or node.
func (e *Evaluation) Value(name string) (float64, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Values returns a copy of all input and node values.
func (e *Evaluation) Values() map[string]float64 {
	out := make(map[string]float64, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// Order returns the node names in the order they were evaluated.
func (e *Evaluation) Order() []string {
	return append([]string(nil), e.order...)
}

// ZeroGuarded lists nodes that hit a zero denominator or a non-finite
// result and were forced to 0.
func (e *Evaluation) ZeroGuarded() []string {
	return append([]string(nil), e.guarded...)
}

// Evaluate runs the graph. Inputs not supplied take their declared default;
// a required input must be supplied. Names that are not declared inputs
// are rejected.
func (g *Graph) Evaluate(ctx context.Context, in map[string]float64) (*Evaluation, error) {
	values := make(map[string]float64, len(g.inputs)+len(g.nodes))
	for name, decl := range g.inputs {
		values[name] = decl.Default
	}
	for name, v := range in {
		if _, ok := g.inputs[name]; !ok {
			if _, isNode := g.nodes[name]; isNode {
				return nil, fmt.Errorf("%w: %s is a computed node", ErrUnknownInput, name)
			}
			return nil, fmt.Errorf("%w: %s", ErrUnknownInput, name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, activity.Invalid(name, "must be finite")
		}
		values[name] = v
	}
	for _, name := range g.inputNames {
		if !g.inputs[name].Required {
			continue
		}
		if _, ok := in[name]; !ok {
			return nil, activity.Invalid(name, "required")
		}
	}

	ev := &evaluator{ctx: ctx}
	functions := ev.functions()
	for _, name := range g.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := g.nodes[name]
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(n.Expression, functions)
		if err != nil {
			return nil, fmt.Errorf("%w: node %s: %v", ErrBadExpression, name, err)
		}
		params := make(map[string]interface{}, len(g.deps[name]))
		for _, d := range g.deps[name] {
			params[d] = values[d]
		}

		ev.node = name
		out, err := expr.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("evaluating node %s: %w", name, err)
		}
		v, err := cast.ToFloat64E(out)
		if err != nil {
			return nil, fmt.Errorf("node %s: non-numeric result: %w", name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			ev.guard("non-finite result")
			v = 0
		}
		values[name] = v
	}

	return &Evaluation{values: values, order: g.Order(), guarded: ev.guarded}, nil
}

// evaluator carries per-run state for the functions exposed to formulas.
type evaluator struct {
	ctx     context.Context
	node    string
	guarded []string
}

func (ev *evaluator) functions() map[string]govaluate.ExpressionFunction {
	return map[string]govaluate.ExpressionFunction{
		"safeDiv":         ev.safeDiv,
		"allocationShare": ev.allocationShare,
		"when":            when,
	}
}

func (ev *evaluator) guard(reason string) {
	if n := len(ev.guarded); n == 0 || ev.guarded[n-1] != ev.node {
		ev.guarded = append(ev.guarded, ev.node)
	}
	logging.FromContext(ev.ctx).Debug().Ctx(ev.ctx).
		Str("component", "lca").
		Str("node", ev.node).
		Str("reason", reason).
		Msg("node guarded to zero")
}

// safeDiv(a, b) is a / b, or 0 when b is 0.
func (ev *evaluator) safeDiv(args ...interface{}) (interface{}, error) {
	nums, err := floatArgs("safeDiv", 2, 2, args)
	if err != nil {
		return nil, err
	}
	if nums[1] == 0 {
		ev.guard("zero denominator")
		return 0.0, nil
	}
	return nums[0] / nums[1], nil
}

// allocationShare(main, coProducts...) is the main product's share of the
// total energy, or 0 when the pool is empty.
func (ev *evaluator) allocationShare(args ...interface{}) (interface{}, error) {
	nums, err := floatArgs("allocationShare", 1, -1, args)
	if err != nil {
		return nil, err
	}
	share := AllocationFactor(nums[0], nums[1:]...)
	if floats.Sum(nums) == 0 {
		ev.guard("empty energy pool")
	}
	return share, nil
}

// when(test, value) is value when test is non-zero, else 0.
func when(args ...interface{}) (interface{}, error) {
	nums, err := floatArgs("when", 2, 2, args)
	if err != nil {
		return nil, err
	}
	if nums[0] == 0 {
		return 0.0, nil
	}
	return nums[1], nil
}

// floatArgs coerces function arguments; maxArgs < 0 means unbounded.
func floatArgs(fn string, minArgs, maxArgs int, args []interface{}) ([]float64, error) {
	if len(args) < minArgs || (maxArgs >= 0 && len(args) > maxArgs) {
		return nil, fmt.Errorf("%w: %s called with %d arguments", ErrBadExpression, fn, len(args))
	}
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := cast.ToFloat64E(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %s argument %d: %v", ErrBadExpression, fn, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
