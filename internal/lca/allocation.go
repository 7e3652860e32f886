package lca

import "gonum.org/v1/gonum/floats"

// AllocationFactor is the main product's share of the energy pool:
// main / (main + Σ coProducts). An empty pool yields 0.
func AllocationFactor(main float64, coProducts ...float64) float64 {
	total := main + floats.Sum(coProducts)
	if total == 0 {
		return 0
	}
	return main / total
}

// Allocate applies one allocation factor to the sum of stage emissions.
func Allocate(factor float64, stages ...float64) float64 {
	return factor * floats.Sum(stages)
}
