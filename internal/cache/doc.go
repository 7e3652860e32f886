// Package cache stores oracle replies on disk with a TTL so that repeated
// calculations of the same activity against the same candidate factors do
// not call the oracle again.
//
// Entries live as JSON files named by the SHA-256 of the prompt and model,
// under $GHGCALC_HOME/cache by default. Writes go through a temporary file
// and a rename.
package cache
