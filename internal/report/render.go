package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
	"gonum.org/v1/gonum/floats"

	"github.com/rshade/ghgcalc/internal/engine"
	"github.com/rshade/ghgcalc/internal/engine/batch"
	"github.com/rshade/ghgcalc/internal/factors"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// DefaultPrecision is the number of decimals shown in tables.
const DefaultPrecision = 2

// Renderer writes results to w as tables or JSON.
type Renderer struct {
	w         io.Writer
	precision int
	styled    bool
}

// NewRenderer returns a Renderer for w. Tables are coloured only when w is
// a terminal.
func NewRenderer(w io.Writer, precision int) *Renderer {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Renderer{w: w, precision: precision, styled: isWriterTerminal(w)}
}

// WithStyle forces colour on or off.
func (r *Renderer) WithStyle(styled bool) *Renderer {
	r.styled = styled
	return r
}

func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ResultsDocument is the JSON form of a project calculation.
type ResultsDocument struct {
	Standard      factors.Standard `json:"standard"`
	Results       []engine.Result  `json:"results"`
	Failures      []Failure        `json:"failures,omitempty"`
	TotalCO2e     float64          `json:"total_co2e_kg"`
	Equivalencies *Equivalencies   `json:"equivalencies,omitempty"`
}

// Failure is an activity that could not be calculated.
type Failure struct {
	Index    int    `json:"index"`
	Activity string `json:"activity,omitempty"`
	Error    string `json:"error"`
}

// Summarize splits outcomes into results and failures and totals CO2e.
func Summarize(std factors.Standard, outcomes []batch.Outcome[engine.Result], labels []string) ResultsDocument {
	doc := ResultsDocument{Standard: std, Results: []engine.Result{}}
	co2e := make([]float64, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			f := Failure{Index: o.Index + 1, Error: o.Err.Error()}
			if o.Index < len(labels) {
				f.Activity = labels[o.Index]
			}
			doc.Failures = append(doc.Failures, f)
			continue
		}
		doc.Results = append(doc.Results, o.Value)
		co2e = append(co2e, o.Value.CO2Equivalent)
	}
	doc.TotalCO2e = floats.Sum(co2e)
	if eq, err := CalculateEquivalencies(doc.TotalCO2e); err == nil && !eq.IsEmpty {
		doc.Equivalencies = &eq
	}
	return doc
}

func (r *Renderer) styles() (header, cell, warn lipgloss.Style) {
	header = lipgloss.NewStyle().Padding(0, 1)
	cell = lipgloss.NewStyle().Padding(0, 1)
	warn = cell
	if r.styled {
		header = header.Bold(true).Foreground(lipgloss.Color("39"))
		warn = warn.Foreground(lipgloss.Color("208"))
	}
	return header, cell, warn
}

func (r *Renderer) table(headers []string, rows [][]string, highlight func(row int) bool) string {
	header, cell, warn := r.styles()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case highlight != nil && highlight(row):
				return warn
			default:
				return cell
			}
		})
	if r.styled {
		t = t.BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240")))
	}
	return t.Render()
}

func (r *Renderer) num(v float64) string {
	return FormatFloat(v, r.precision)
}

// Results renders a project calculation as a table followed by totals,
// equivalencies and failures.
func (r *Renderer) Results(doc ResultsDocument) error {
	rows := make([][]string, 0, len(doc.Results))
	for _, res := range doc.Results {
		rows = append(rows, []string{
			res.Activity.Label(),
			r.num(res.Activity.Quantity) + " " + res.Activity.Unit,
			res.FactorUsed.ID,
			res.Method,
			r.num(res.EmissionValue) + " " + string(res.GasType),
			r.num(res.CO2Equivalent),
			notes(res),
		})
	}
	flagged := func(row int) bool {
		return row >= 0 && row < len(doc.Results) && doc.Results[row].DiscrepancyFlag
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s emissions (%d calculated, %d failed)\n", doc.Standard, len(doc.Results), len(doc.Failures))
	if len(rows) > 0 {
		b.WriteString(r.table(
			[]string{"Activity", "Quantity", "Factor", "Method", "Emission (kg)", "CO2e (kg)", "Notes"},
			rows, flagged))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total: %s kg CO2e\n", r.num(doc.TotalCO2e))
	if doc.Equivalencies != nil {
		b.WriteString(doc.Equivalencies.DisplayText + "\n")
	}
	for _, res := range doc.Results {
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "warning: %s: %s\n", res.Activity.Label(), w)
		}
	}
	for _, f := range doc.Failures {
		fmt.Fprintf(&b, "failed #%d %s: %s\n", f.Index, f.Activity, f.Error)
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func notes(res engine.Result) string {
	var parts []string
	if res.DiscrepancyFlag {
		parts = append(parts, fmt.Sprintf("oracle discrepancy (%d)", len(res.Discrepancies)))
	}
	if res.ISOCategory != 0 {
		parts = append(parts, fmt.Sprintf("ISO cat %d", res.ISOCategory))
	}
	if res.OracleCached {
		parts = append(parts, "cached")
	}
	return strings.Join(parts, ", ")
}

// LCA renders a pathway result: the emission components, then every node
// value when the result carries them.
func (r *Renderer) LCA(res engine.LCAResult) error {
	rows := [][]string{
		{"eec", "Cultivation", r.num(res.EEC)},
		{"ep", "Processing", r.num(res.EP)},
		{"etd", "Transport and distribution", r.num(res.ETD)},
		{"el", "Land-use change (annualised)", r.num(res.EL)},
		{"eccr", "Carbon capture credit", r.num(res.ECCR)},
		{"allocation", "Energy allocation factor", FormatFloat(res.AllocationFactor, 4)},
		{"eec_a", "Cultivation, allocated", r.num(res.EECAllocated)},
		{"ep_a", "Processing, allocated", r.num(res.EPAllocated)},
		{"etd_a", "Transport, allocated", r.num(res.ETDAllocated)},
		{"total", "Total", r.num(res.Total)},
		{"baseline", "Fossil comparator", r.num(res.FossilBaseline)},
		{"savings", "GHG savings (%)", r.num(res.GHGSavings)},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ISCC corn-to-ethanol pathway, %s formulas, %s\n", res.FormulaMode, res.Unit)
	b.WriteString(r.table([]string{"Component", "Description", "Value"}, rows, nil))
	b.WriteString("\n")
	if len(res.ZeroGuarded) > 0 {
		fmt.Fprintf(&b, "zero denominators forced to 0: %s\n", strings.Join(res.ZeroGuarded, ", "))
	}

	if len(res.Nodes) > 0 {
		names := make([]string, 0, len(res.Nodes))
		for name := range res.Nodes {
			names = append(names, name)
		}
		sort.Strings(names)
		nodeRows := make([][]string, 0, len(names))
		for _, name := range names {
			nodeRows = append(nodeRows, []string{name, FormatFloat(res.Nodes[name], 6)})
		}
		b.WriteString(r.table([]string{"Node", "Value"}, nodeRows, nil))
		b.WriteString("\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Factors renders factor-store entries.
func (r *Renderer) Factors(fs []factors.EmissionFactor) error {
	rows := make([][]string, 0, len(fs))
	for _, f := range fs {
		gases := make([]string, 0, len(f.PerGas))
		for _, g := range f.Gases() {
			gases = append(gases, fmt.Sprintf("%s=%g", g, f.PerGas[g]))
		}
		year := ""
		if f.Year != 0 {
			year = fmt.Sprint(f.Year)
		}
		rows = append(rows, []string{
			f.ID, string(f.Standard), year, string(f.Tier), f.Unit,
			strings.Join(gases, " "), strings.Join(f.Categories, ", "),
		})
	}
	out := r.table([]string{"ID", "Standard", "Year", "Tier", "Unit", "Per gas (kg/unit)", "Categories"}, rows, nil)
	_, err := fmt.Fprintf(r.w, "%s\n%d factors\n", out, len(fs))
	return err
}

// GWP renders a GWP table.
func (r *Renderer) GWP(t factors.GWPTable) error {
	values := t.Values()
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		rows = append(rows, []string{string(v.GasType), FormatFloat(v.Value, 0)})
	}
	out := r.table([]string{"Gas", "GWP-100"}, rows, nil)
	_, err := fmt.Fprintf(r.w, "IPCC %s\n%s\n", t.Report(), out)
	return err
}

// Inputs renders named input defaults, sorted by name.
func (r *Renderer) Inputs(defaults map[string]float64) error {
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, FormatFloat(defaults[name], 6)})
	}
	out := r.table([]string{"Input", "Default"}, rows, nil)
	_, err := fmt.Fprintf(r.w, "%s\n%d inputs\n", out, len(names))
	return err
}
