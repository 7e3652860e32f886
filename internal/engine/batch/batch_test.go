package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func numbers(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestProcessor_Run(t *testing.T) {
	items := numbers(25)

	t.Run("KeepsInputOrder", func(t *testing.T) {
		p, err := NewProcessor[int, int](10, 3)
		require.NoError(t, err)

		out, err := p.Run(context.Background(), items, func(_ context.Context, _ int, item int) (int, error) {
			return item * item, nil
		})
		require.NoError(t, err)
		require.Len(t, out, 25)
		for i, o := range out {
			assert.Equal(t, i, o.Index)
			assert.Equal(t, i*i, o.Value)
			assert.NoError(t, o.Err)
		}
	})

	t.Run("FailuresDoNotStopSiblings", func(t *testing.T) {
		p, err := NewProcessor[int, int](5, 4)
		require.NoError(t, err)
		var calls int32

		out, err := p.Run(context.Background(), items, func(_ context.Context, _ int, item int) (int, error) {
			atomic.AddInt32(&calls, 1)
			if item%7 == 0 {
				return 0, errors.New("boom")
			}
			return item, nil
		})
		require.NoError(t, err)
		assert.Equal(t, int32(25), calls)
		failed := 0
		for _, o := range out {
			if o.Err != nil {
				failed++
			}
		}
		assert.Equal(t, 4, failed) // 0, 7, 14, 21
	})

	t.Run("ConcurrencyLimit", func(t *testing.T) {
		p, err := NewProcessor[int, int](25, 2)
		require.NoError(t, err)
		var running, peak int32

		_, err = p.Run(context.Background(), items, func(_ context.Context, _ int, item int) (int, error) {
			n := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			atomic.AddInt32(&running, -1)
			return item, nil
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, peak, int32(2))
	})

	t.Run("Cancelled", func(t *testing.T) {
		p, err := NewProcessor[int, int](5, 2)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = p.Run(ctx, items, func(_ context.Context, _ int, item int) (int, error) {
			return item, nil
		})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Progress", func(t *testing.T) {
		p, err := NewProcessor[int, int](10, 2)
		require.NoError(t, err)
		var snaps []ProgressSnapshot
		p.WithProgressCallback(func(s ProgressSnapshot) { snaps = append(snaps, s) })

		_, err = p.Run(context.Background(), items, func(_ context.Context, _ int, item int) (int, error) {
			if item == 3 {
				return 0, errors.New("bad")
			}
			return item, nil
		})
		require.NoError(t, err)
		require.Len(t, snaps, 3)
		last := snaps[2]
		assert.Equal(t, 25, last.ProcessedItems)
		assert.Equal(t, 1, last.FailedItems)
		assert.Equal(t, 3, last.ProcessedBatches)
		assert.InDelta(t, 100.0, last.PercentComplete, 1e-9)
	})

	t.Run("Arguments", func(t *testing.T) {
		p := NewProcessorWithDefaults[int, int]()
		_, err := p.Run(context.Background(), nil, nil)
		require.ErrorIs(t, err, ErrEmptyItems)
		_, err = p.Run(context.Background(), items, nil)
		require.ErrorIs(t, err, ErrNilFunc)

		_, err = NewProcessor[int, int](0, 1)
		require.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int, int](2000, 1)
		require.ErrorIs(t, err, ErrInvalidBatchSize)

		q, err := NewProcessor[int, int](5, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, q.Concurrency())
	})
}

func TestProgress(t *testing.T) {
	p := NewProgress(100, 10, 10)

	assert.Equal(t, 0.0, p.PercentComplete())
	assert.False(t, p.IsComplete())

	p.AddProcessed(10, 1)
	assert.Equal(t, 10.0, p.PercentComplete())

	p.AddProcessed(90, 0)
	assert.True(t, p.IsComplete())

	snap := p.Snapshot()
	assert.Equal(t, 100, snap.ProcessedItems)
	assert.Equal(t, 1, snap.FailedItems)
	assert.Equal(t, 2, snap.ProcessedBatches)
}

func TestProcessor_CalculateBatches(t *testing.T) {
	p, err := NewProcessor[int, int](10, 1)
	require.NoError(t, err)
	batches := p.CalculateBatches(25)
	require.Len(t, batches, 3)
	assert.Equal(t, [2]int{0, 10}, batches[0])
	assert.Equal(t, [2]int{10, 20}, batches[1])
	assert.Equal(t, [2]int{20, 25}, batches[2])
	assert.Equal(t, 10, p.BatchSize())
}
