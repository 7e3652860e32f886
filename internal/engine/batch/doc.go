// Package batch runs one function over many independent items.
//
// Items are split into fixed-size batches processed one after another;
// within a batch up to Concurrency items run at once. A failing item is
// recorded in its Outcome and never stops its siblings. Only context
// cancellation ends a run early.
package batch
