package oracle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ghgcalc/internal/cache"
	"github.com/rshade/ghgcalc/internal/factors"
)

const goodReply = "```json\n" + `{"chosenFactorIdentifier":"f1","gasType":"CO2","emissionValue":200,"co2Equivalent":228,"unit":"litres","explanation":"diesel"}` + "\n```"

func replying(text string, calls *atomic.Int32) Oracle {
	return Func(func(context.Context, string) (string, error) {
		if calls != nil {
			calls.Add(1)
		}
		return text, nil
	})
}

func TestAdapter_Select(t *testing.T) {
	a := NewAdapter(replying(goodReply, nil))
	sel, err := a.Select(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "f1", sel.ChosenFactorID)
	assert.Equal(t, "Diesel", sel.Factor.Name)
	assert.Equal(t, factors.CO2, sel.GasType)
	assert.InDelta(t, 228.0, sel.CO2Equivalent, 1e-12)
	assert.False(t, sel.Cached)
}

func TestAdapter_FallsBackToName(t *testing.T) {
	a := NewAdapter(replying(`{"chosenFactorIdentifier":"Biodiesel","emissionValue":1,"co2Equivalent":1}`, nil))
	sel, err := a.Select(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "f2", sel.ChosenFactorID)
	assert.Equal(t, factors.CO2, sel.GasType, "gas defaults to the factor's own")
}

func TestAdapter_Errors(t *testing.T) {
	tests := []struct {
		name      string
		oracle    Oracle
		want      error
		retryable bool
	}{
		{name: "empty", oracle: replying("  \n", nil), want: ErrOracleEmptyResponse},
		{name: "garbage", oracle: replying("no idea", nil), want: ErrOracleParseError},
		{
			name:   "unknown factor",
			oracle: replying(`{"chosenFactorIdentifier":"zzz","emissionValue":1,"co2Equivalent":1}`, nil),
			want:   ErrOracleFactorNotFound,
		},
		{
			name: "timeout",
			oracle: Func(func(ctx context.Context, _ string) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			}),
			want:      ErrOracleTimeout,
			retryable: true,
		},
		{
			name: "ignores deadline",
			oracle: Func(func(context.Context, string) (string, error) {
				time.Sleep(200 * time.Millisecond)
				return goodReply, nil
			}),
			want:      ErrOracleTimeout,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdapter(tt.oracle, WithTimeout(20*time.Millisecond))
			_, err := a.Select(context.Background(), sampleRequest())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestAdapter_TimeoutDoesNotWaitForOracle(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	a := NewAdapter(Func(func(context.Context, string) (string, error) {
		<-release
		return goodReply, nil
	}), WithTimeout(20*time.Millisecond))

	start := time.Now()
	sel, err := a.Select(context.Background(), sampleRequest())
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrOracleTimeout)
	assert.Nil(t, sel)
	assert.Less(t, elapsed, time.Second)
}

func TestAdapter_LateReplyRejected(t *testing.T) {
	a := NewAdapter(Func(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return goodReply, nil
	}), WithTimeout(20*time.Millisecond))

	_, err := a.Select(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrOracleTimeout)
}

func TestAdapter_TransportErrorIsTerminal(t *testing.T) {
	boom := errors.New("connection refused")
	a := NewAdapter(Func(func(context.Context, string) (string, error) { return "", boom }))
	_, err := a.Select(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsRetryable(err))
}

func TestAdapter_NoCandidates(t *testing.T) {
	req := sampleRequest()
	req.Candidates = nil
	_, err := NewAdapter(replying(goodReply, nil)).Select(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestAdapter_Cache(t *testing.T) {
	store, err := cache.NewFileStore(t.TempDir(), true, time.Hour)
	require.NoError(t, err)

	var calls atomic.Int32
	a := NewAdapter(replying(goodReply, &calls), WithCache(store), WithModel("test-model"))

	first, err := a.Select(context.Background(), sampleRequest())
	require.NoError(t, err)
	second, err := a.Select(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ChosenFactorID, second.ChosenFactorID)

	other := sampleRequest()
	other.Activity.Quantity = 5
	_, err = a.Select(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAdapter_FailedRepliesNotCached(t *testing.T) {
	store, err := cache.NewFileStore(t.TempDir(), true, time.Hour)
	require.NoError(t, err)

	a := NewAdapter(replying("nope", nil), WithCache(store))
	_, err = a.Select(context.Background(), sampleRequest())
	require.Error(t, err)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAdapter_UnusableCachedReplyReplaced(t *testing.T) {
	store, err := cache.NewFileStore(t.TempDir(), true, time.Hour)
	require.NoError(t, err)
	req := sampleRequest()
	key := cache.Key("test-model", BuildPrompt(req))
	require.NoError(t, store.Set(key, "test-model", "stale garbage"))

	var calls atomic.Int32
	a := NewAdapter(replying(goodReply, &calls), WithCache(store), WithModel("test-model"))
	sel, err := a.Select(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, sel.Cached)
	assert.Equal(t, int32(1), calls.Load())

	entry, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, goodReply, entry.Reply)
}
