package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns a sampler yielding values in order, repeating the last one.
func sequence(values ...int) (Sampler[int], *int) {
	count := 0
	return func() (int, error) {
		idx := count
		if idx >= len(values) {
			idx = len(values) - 1
		}
		count++

		return values[idx], nil
	}, &count
}

func TestAwait_ZeroTimeoutSamplesOnce(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		sample, count := sequence(0, 0x20)

		outcome, err := Await(context.Background(), Params{Timeout: timeout}, sample, AllBits(0x20))
		require.NoError(t, err)

		assert.False(t, outcome.TimedOut)
		assert.Equal(t, 1, *count)
		assert.Equal(t, 1, outcome.Samples)
		assert.Equal(t, 0, outcome.Value)
	}
}

func TestAwait_PredicateHoldsAfterIntervals(t *testing.T) {
	sample, count := sequence(0, 0, 0, 0x20)
	yields := 0

	outcome, err := Await(context.Background(), Params{
		Timeout:      time.Second,
		PollInterval: time.Millisecond,
		Yield:        func() { yields++ },
	}, sample, AllBits(0x20))
	require.NoError(t, err)

	assert.False(t, outcome.TimedOut)
	assert.Equal(t, 0x20, outcome.Value)
	assert.Equal(t, 4, *count)
	assert.Equal(t, 4, outcome.Samples)
	assert.Equal(t, 3, yields)
}

func TestAwait_ImmediateMatch(t *testing.T) {
	sample, count := sequence(0x30)

	outcome, err := Await(context.Background(), Params{Timeout: time.Second}, sample, AnyBit(0x10))
	require.NoError(t, err)
	assert.False(t, outcome.TimedOut)
	assert.Equal(t, 1, *count)
}

func TestAwait_TimesOutWithLastValue(t *testing.T) {
	sample, count := sequence(1, 2, 3, 4, 5, 6, 7)

	outcome, err := Await(context.Background(), Params{
		Timeout:      30 * time.Millisecond,
		PollInterval: 2 * time.Millisecond,
	}, sample, AllBits(0x80))
	require.NoError(t, err)

	assert.True(t, outcome.TimedOut)
	assert.GreaterOrEqual(t, outcome.Elapsed, 30*time.Millisecond)
	assert.Greater(t, *count, 1)
	assert.Equal(t, *count, outcome.Samples)
	assert.NotZero(t, outcome.Value)
}

func TestAwait_ElapsedIncludesOnsetDelay(t *testing.T) {
	sample, _ := sequence(0)

	outcome, err := Await(context.Background(), Params{OnsetDelay: 20 * time.Millisecond}, sample, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, outcome.Elapsed, 20*time.Millisecond)
	assert.False(t, outcome.TimedOut)
}

func TestAwait_SampleError(t *testing.T) {
	errRead := errors.New("read status failed")
	calls := 0
	sample := func() (int, error) {
		calls++
		if calls == 2 {
			return 0, errRead
		}
		return 0, nil
	}

	outcome, err := Await(context.Background(), Params{Timeout: time.Second, PollInterval: time.Millisecond}, sample, AnyBit(1))
	require.ErrorIs(t, err, errRead)
	assert.Equal(t, 2, outcome.Samples)
}

func TestAwait_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	sample, _ := sequence(0)
	_, err := Await(ctx, Params{Timeout: time.Minute, PollInterval: time.Millisecond}, sample, AnyBit(1))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwait_NilSampler(t *testing.T) {
	_, err := Await[int](context.Background(), Params{}, nil, AnyBit(1))
	require.ErrorIs(t, err, ErrNilSampler)
}

func TestPredicates(t *testing.T) {
	assert.True(t, AllBits(0x30)(0x31))
	assert.False(t, AllBits(0x30)(0x10))
	assert.True(t, AnyBit(0x30)(0x10))
	assert.False(t, AnyBit(0x30)(0x01))
	assert.True(t, NoBit(0x80)(0x7F))
	assert.False(t, NoBit(0x80)(0x80))
}
