package lca

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/logging"
	"github.com/rshade/ghgcalc/internal/numeric"
)

// Convention is how ISCC inputs are parsed.
const Convention = numeric.US

// DefaultFossilBaseline is the fossil fuel comparator in g CO2e/MJ.
const DefaultFossilBaseline = 83.8

// FormulaMode selects between the literal spreadsheet formulas and the
// methodology-correct ones for the two nodes where they differ:
// totalLUCCO2EmissionsTDryCorn and indirectN2OVolatilization.
type FormulaMode string

// Formula modes.
const (
	FormulaSpreadsheet FormulaMode = "spreadsheet"
	FormulaMethodology FormulaMode = "methodology"
)

// ParseFormulaMode accepts "spreadsheet" and "methodology"; empty means
// spreadsheet.
func ParseFormulaMode(s string) (FormulaMode, error) {
	switch FormulaMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormulaSpreadsheet:
		return FormulaSpreadsheet, nil
	case FormulaMethodology:
		return FormulaMethodology, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormulaMode, s)
	}
}

// Result is an ISCC corn-to-ethanol calculation. Emission components are
// in g CO2e/MJ of ethanol.
type Result struct {
	EEC              float64            `json:"eec"`
	EP               float64            `json:"ep"`
	ETD              float64            `json:"etd"`
	EL               float64            `json:"el"`
	ECCR             float64            `json:"eccr"`
	AllocationFactor float64            `json:"allocation_factor"`
	EECAllocated     float64            `json:"eec_allocated"`
	EPAllocated      float64            `json:"ep_allocated"`
	ETDAllocated     float64            `json:"etd_allocated"`
	Total            float64            `json:"total"`
	FossilBaseline   float64            `json:"fossil_baseline"`
	GHGSavings       float64            `json:"ghg_savings_percent"`
	Unit             string             `json:"unit"`
	FormulaMode      FormulaMode        `json:"formula_mode"`
	ZeroGuarded      []string           `json:"zero_guarded,omitempty"`
	Nodes            map[string]float64 `json:"nodes,omitempty"`
}

// AllocatedSum is EEC_a + EP_a + ETD_a.
func (r Result) AllocatedSum() float64 {
	return Allocate(1, r.EECAllocated, r.EPAllocated, r.ETDAllocated)
}

// Pathway is the compiled corn-to-ethanol graph plus its input defaults.
type Pathway struct {
	graph    *Graph
	mode     FormulaMode
	defaults map[string]float64
}

// Option adjusts a Pathway's defaults.
type Option func(*Pathway) error

// WithFactorDefaults replaces emission-factor input defaults with the
// values of the referenced factor-store entries. Missing entries keep the
// built-in default.
func WithFactorDefaults(store *factors.Store) Option {
	return func(p *Pathway) error {
		if store == nil {
			return nil
		}
		for _, in := range p.graph.Inputs() {
			if in.FactorID == "" {
				continue
			}
			f, err := store.Get(in.FactorID)
			if err != nil {
				continue
			}
			if v, ok := f.PrimaryValue(); ok {
				p.defaults[in.Name] = v
			}
		}
		return nil
	}
}

// WithGWP takes the N2O GWP from table.
func WithGWP(table factors.GWPTable) Option {
	return func(p *Pathway) error {
		v, err := table.GWP(factors.N2O)
		if err != nil {
			return err
		}
		p.defaults[InputGWPN2O] = v
		return nil
	}
}

// WithFossilBaseline sets the comparator used when a request does not
// supply one. Non-positive values keep DefaultFossilBaseline.
func WithFossilBaseline(v float64) Option {
	return func(p *Pathway) error {
		if v > 0 {
			p.defaults[InputFossilBaseline] = v
		}
		return nil
	}
}

// NewPathway compiles the corn-to-ethanol graph for mode.
func NewPathway(mode FormulaMode, opts ...Option) (*Pathway, error) {
	if mode == "" {
		mode = FormulaSpreadsheet
	}
	if mode != FormulaSpreadsheet && mode != FormulaMethodology {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormulaMode, mode)
	}
	g, err := Compile(cornEthanolInputs(), cornEthanolNodes(mode))
	if err != nil {
		return nil, fmt.Errorf("compiling corn-ethanol pathway: %w", err)
	}
	p := &Pathway{graph: g, mode: mode, defaults: make(map[string]float64)}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Graph returns the compiled graph for inspection.
func (p *Pathway) Graph() *Graph {
	return p.graph
}

// Mode returns the formula mode the pathway was compiled with.
func (p *Pathway) Mode() FormulaMode {
	return p.mode
}

// Default returns the effective default of an input.
func (p *Pathway) Default(name string) (float64, bool) {
	if v, ok := p.defaults[name]; ok {
		return v, true
	}
	in, ok := p.graph.Input(name)
	return in.Default, ok
}

// Evaluate runs the graph with in layered over the pathway defaults.
func (p *Pathway) Evaluate(ctx context.Context, in map[string]float64) (*Evaluation, error) {
	merged := make(map[string]float64, len(p.defaults)+len(in))
	for k, v := range p.defaults {
		merged[k] = v
	}
	for k, v := range in {
		merged[k] = v
	}
	return p.graph.Evaluate(ctx, merged)
}

// Calculate evaluates the pathway and collects the result components.
// withNodes includes every input and node value in the result.
func (p *Pathway) Calculate(ctx context.Context, in map[string]float64, withNodes bool) (Result, error) {
	ev, err := p.Evaluate(ctx, in)
	if err != nil {
		return Result{}, err
	}
	get := func(name string) float64 {
		v, _ := ev.Value(name)
		return v
	}
	res := Result{
		EEC:              get(NodeEEC),
		EP:               get(NodeEP),
		ETD:              get(NodeETD),
		EL:               get(NodeEL),
		ECCR:             get(InputECCR),
		AllocationFactor: get(NodeAllocationFactor),
		EECAllocated:     get(NodeEECAllocated),
		EPAllocated:      get(NodeEPAllocated),
		ETDAllocated:     get(NodeETDAllocated),
		Total:            get(NodeTotal),
		FossilBaseline:   get(InputFossilBaseline),
		GHGSavings:       get(NodeSavings),
		Unit:             unitGMJ,
		FormulaMode:      p.mode,
		ZeroGuarded:      ev.ZeroGuarded(),
	}
	if withNodes {
		res.Nodes = ev.Values()
	}

	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "lca").
		Str("formula_mode", string(p.mode)).
		Float64("total", res.Total).
		Float64("allocation_factor", res.AllocationFactor).
		Int("zero_guarded", len(res.ZeroGuarded)).
		Msg("corn-ethanol pathway evaluated")
	return res, nil
}

// ParseInputs normalizes raw request values with the US convention. Null,
// empty or unparsable values become 0.
func ParseInputs(raw map[string]any) map[string]float64 {
	parser := numeric.NewParser(Convention)
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		out[k] = parser.Parse(v)
	}
	return out
}

// InputNames lists the declared input names, sorted.
func (p *Pathway) InputNames() []string {
	ins := p.graph.Inputs()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.Name)
	}
	sort.Strings(names)
	return names
}
