package oracle

import (
	"fmt"
	"strconv"
	"strings"
)

// systemInstruction is sent ahead of the prompt by oracles that support it.
const systemInstruction = "You select greenhouse-gas emission factors. " +
	"Answer with exactly one JSON object and nothing else."

// BuildPrompt renders req as a fully specified prompt. The same request
// always yields the same bytes, which the reply cache relies on.
func BuildPrompt(req Request) string {
	var b strings.Builder
	a := req.Activity

	b.WriteString("Select the single most appropriate emission factor for the activity below.\n\n")

	b.WriteString("ACTIVITY\n")
	fmt.Fprintf(&b, "- standard: %s\n", req.Standard)
	fmt.Fprintf(&b, "- name: %s\n", orNone(a.ActivityName))
	fmt.Fprintf(&b, "- category: %s\n", orNone(a.Category))
	fmt.Fprintf(&b, "- quantity: %s\n", num(a.Quantity))
	fmt.Fprintf(&b, "- unit: %s\n", a.Unit)
	if a.StandardYear != 0 {
		fmt.Fprintf(&b, "- standard year: %d\n", a.StandardYear)
	}

	b.WriteString("\nCANDIDATE FACTORS (kg of gas per unit)\n")
	for i, f := range req.Candidates {
		fmt.Fprintf(&b, "%d. id=%s name=%q year=%d unit=%s gas_type=%s",
			i+1, f.ID, f.Name, f.Year, f.Unit, f.GasType)
		if f.Tier != "" {
			fmt.Fprintf(&b, " tier=%s", f.Tier)
		}
		for _, g := range f.Gases() {
			fmt.Fprintf(&b, " %s=%s", g, num(f.PerGas[g]))
		}
		if len(f.Categories) > 0 {
			fmt.Fprintf(&b, " categories=%s", strings.Join(f.Categories, "|"))
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nGWP TABLE (%s, 100-year)\n", req.GWP.Report())
	for _, v := range req.GWP.Values() {
		fmt.Fprintf(&b, "- %s: %s\n", v.GasType, num(v.Value))
	}

	b.WriteString(`
OUTPUT
Reply with one JSON object, no markdown and no prose, with these fields:
{
  "chosenFactorIdentifier": "<id of one candidate above>",
  "gasType": "<gas the emission value is expressed in>",
  "emissionValue": <number, kg of that gas>,
  "co2Equivalent": <number, kg CO2e using the GWP table>,
  "unit": "<unit of the chosen factor>",
  "formula": "<arithmetic you applied>",
  "perGas": {"<gas>": <kg>},
  "explanation": "<one sentence>"
}
`)
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
