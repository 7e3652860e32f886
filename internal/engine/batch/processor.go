package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Default batch processing configuration.
const (
	// DefaultBatchSize is the default number of items per batch.
	DefaultBatchSize = 100

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 1000

	// DefaultConcurrency is the default number of items run at once.
	DefaultConcurrency = 4
)

type constError string

func (e constError) Error() string { return string(e) }

// Batch processing errors.
const (
	ErrInvalidBatchSize = constError("batch size must be between 1 and 1000")
	ErrNilFunc          = constError("batch function cannot be nil")
	ErrEmptyItems       = constError("items slice cannot be empty")
)

// Func processes one item. index is the item's position in the input.
type Func[T, R any] func(ctx context.Context, index int, item T) (R, error)

// Outcome is the result of one item, at the item's input position.
type Outcome[R any] struct {
	Index int
	Value R
	Err   error
}

// ProgressCallback is invoked after each batch completes.
type ProgressCallback func(snapshot ProgressSnapshot)

// Processor runs a Func over items in batches with bounded concurrency.
type Processor[T, R any] struct {
	batchSize   int
	concurrency int
	onProgress  ProgressCallback
}

// NewProcessor creates a processor. concurrency below 1 means 1.
func NewProcessor[T, R any](batchSize, concurrency int) (*Processor[T, R], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Processor[T, R]{batchSize: batchSize, concurrency: concurrency}, nil
}

// NewProcessorWithDefaults creates a processor with the default batch size
// and concurrency.
func NewProcessorWithDefaults[T, R any]() *Processor[T, R] {
	return &Processor[T, R]{batchSize: DefaultBatchSize, concurrency: DefaultConcurrency}
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor[T, R]) WithProgressCallback(callback ProgressCallback) *Processor[T, R] {
	p.onProgress = callback
	return p
}

// Run processes every item and returns one Outcome per item in input
// order. The returned error is non-nil only for invalid arguments or when
// ctx is cancelled; item failures are reported in their Outcome.
func (p *Processor[T, R]) Run(ctx context.Context, items []T, fn Func[T, R]) ([]Outcome[R], error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	if fn == nil {
		return nil, ErrNilFunc
	}

	outcomes := make([]Outcome[R], len(items))
	bounds := p.CalculateBatches(len(items))
	progress := NewProgress(len(items), len(bounds), p.batchSize)

	for _, b := range bounds {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.concurrency)
		for i := b[0]; i < b[1]; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					outcomes[i] = Outcome[R]{Index: i, Err: err}
					return err
				}
				v, err := fn(gctx, i, items[i])
				outcomes[i] = Outcome[R]{Index: i, Value: v, Err: err}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return outcomes, err
		}

		failed := 0
		for i := b[0]; i < b[1]; i++ {
			if outcomes[i].Err != nil {
				failed++
			}
		}
		progress.AddProcessed(b[1]-b[0], failed)
		if p.onProgress != nil {
			p.onProgress(progress.Snapshot())
		}
	}
	return outcomes, nil
}

// BatchSize returns the configured batch size.
func (p *Processor[T, R]) BatchSize() int {
	return p.batchSize
}

// Concurrency returns the configured concurrency limit.
func (p *Processor[T, R]) Concurrency() int {
	return p.concurrency
}

// CalculateBatches returns the [start, end) index pairs of each batch.
func (p *Processor[T, R]) CalculateBatches(totalItems int) [][2]int {
	total := totalItems / p.batchSize
	if totalItems%p.batchSize > 0 {
		total++
	}
	batches := make([][2]int, total)
	for i := range total {
		start := i * p.batchSize
		end := min(start+p.batchSize, totalItems)
		batches[i] = [2]int{start, end}
	}
	return batches
}
