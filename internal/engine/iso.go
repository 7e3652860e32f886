package engine

import (
	"strings"
)

// ISOCategory is an ISO 14064-1:2018 reporting category.
type ISOCategory int

// ISO 14064-1 categories.
const (
	ISODirect ISOCategory = iota + 1
	ISOImportedEnergy
	ISOTransportation
	ISOProductsUsed
	ISOProductsFromOrganization
	ISOOtherIndirect
)

func (c ISOCategory) String() string {
	switch c {
	case ISODirect:
		return "Direct GHG emissions and removals"
	case ISOImportedEnergy:
		return "Indirect GHG emissions from imported energy"
	case ISOTransportation:
		return "Indirect GHG emissions from transportation"
	case ISOProductsUsed:
		return "Indirect GHG emissions from products used by the organization"
	case ISOProductsFromOrganization:
		return "Indirect GHG emissions associated with the use of products from the organization"
	case ISOOtherIndirect:
		return "Indirect GHG emissions from other sources"
	default:
		return "unknown"
	}
}

// isoRules are checked in order; the first match wins. Product use
// precedes transportation so "use of sold vehicles" is not travel, and
// imported energy precedes purchased goods so "purchased electricity" is
// category 2.
//
//nolint:gochecknoglobals // Lookup table.
var isoRules = []struct {
	category ISOCategory
	keywords []string
}{
	{ISOProductsFromOrganization, []string{
		"use of sold", "sold product", "end-of-life", "end of life", "downstream leased", "franchise",
	}},
	{ISOTransportation, []string{
		"transportation", "transport", "business travel", "commuting", "freight", "air travel", "rail", "shipping",
	}},
	{ISOImportedEnergy, []string{
		"imported energy", "electricity", "purchased heat", "steam", "district heating", "cooling",
	}},
	{ISOProductsUsed, []string{
		"products used", "purchased goods", "capital goods", "purchased services", "waste disposal",
		"upstream leased", "materials",
	}},
	{ISODirect, []string{
		"combustion", "fugitive", "refrigerant", "process emission", "fleet", "company vehicle",
		"land use", "removal",
	}},
}

// ClassifyISO maps an activity category onto an ISO 14064-1 category,
// falling back to the chosen factor's categories and then to "other
// indirect".
func ClassifyISO(activityCategory string, factorCategories []string) ISOCategory {
	if c, ok := classify(activityCategory); ok {
		return c
	}
	if c, ok := classify(strings.Join(factorCategories, " | ")); ok {
		return c
	}
	return ISOOtherIndirect
}

func classify(text string) (ISOCategory, bool) {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return 0, false
	}
	for _, r := range isoRules {
		for _, k := range r.keywords {
			if strings.Contains(t, k) {
				return r.category, true
			}
		}
	}
	return 0, false
}
