// Package engine routes activity calculations to the calculator for their
// accounting standard.
//
// IPCC 2006 requests go through the tiered calculator. DEFRA, ISO 14064-1
// and ISCC PLUS requests use a pinned factor, the oracle's choice among
// factor-store candidates, or the most specific candidate when no oracle is
// configured; every number returned is recomputed by the reconcile package.
// ISCC corn-to-ethanol pathways go through CalculateLCA.
//
// An Engine holds only immutable tables and stateless calculators and is
// safe for concurrent use. CalculateAll fans a project's activities out over
// the batch processor; one activity failing never affects its siblings.
package engine
