package poll

import (
	"context"
	"errors"
	"time"

	"github.com/arloliu/go-instrument/internal/pool"
)

// DefaultPollInterval is used when Params.PollInterval is not positive.
const DefaultPollInterval = 5 * time.Millisecond

// ErrNilSampler indicates that Await was called without a sample function.
var ErrNilSampler = errors.New("poll: sample function is nil")

// Params configures a single wait.
type Params struct {
	// Timeout bounds the wait. Zero or negative means "sample once, don't wait".
	Timeout time.Duration
	// OnsetDelay is waited before the first sample.
	OnsetDelay time.Duration
	// PollInterval is waited between samples.
	PollInterval time.Duration
	// Yield is invoked between iterations to keep the host responsive. Optional.
	Yield func()
}

// Outcome is the result of a wait.
type Outcome[V any] struct {
	// TimedOut is true when the predicate did not hold before the timeout.
	TimedOut bool
	// Value is the last sampled value.
	Value V
	// Elapsed is the time spent waiting, onset delay included.
	Elapsed time.Duration
	// Samples is the number of samples taken.
	Samples int
}

// Sampler produces one sample.
type Sampler[V any] func() (V, error)

// Predicate reports whether a sample satisfies the wait.
type Predicate[V any] func(V) bool

func noYield() {}

// Await samples until predicate holds or p.Timeout elapses.
//
// A sample error ends the wait and is returned with the outcome gathered so far. When ctx is done
// the wait ends with ctx.Err(). A nil predicate never holds.
func Await[V any](ctx context.Context, p Params, sample Sampler[V], predicate Predicate[V]) (Outcome[V], error) {
	var outcome Outcome[V]
	if sample == nil {
		return outcome, ErrNilSampler
	}
	if predicate == nil {
		predicate = func(V) bool { return false }
	}

	yield := p.Yield
	if yield == nil {
		yield = noYield
	}

	interval := p.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	start := time.Now()
	done := func(err error) (Outcome[V], error) {
		outcome.Elapsed = time.Since(start)
		return outcome, err
	}

	if err := pool.Sleep(ctx, p.OnsetDelay); err != nil {
		return done(err)
	}

	value, err := sample()
	outcome.Samples++
	if err != nil {
		return done(err)
	}
	outcome.Value = value

	if p.Timeout <= 0 {
		return done(nil)
	}

	for !predicate(outcome.Value) {
		if time.Since(start) >= p.Timeout {
			outcome.TimedOut = true
			return done(nil)
		}

		yield()

		if err := pool.Sleep(ctx, interval); err != nil {
			return done(err)
		}

		value, err := sample()
		outcome.Samples++
		if err != nil {
			return done(err)
		}
		outcome.Value = value
	}

	return done(nil)
}
