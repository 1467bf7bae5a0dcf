package session

import (
	"testing"
	"time"

	"github.com/arloliu/go-instrument/poll"
	"github.com/arloliu/go-instrument/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Zero(t, cfg.Timeout())
	assert.Zero(t, cfg.StatusReadDelay())
	assert.Zero(t, cfg.ReadAfterWriteDelay())
	assert.Zero(t, cfg.PostWriteDelay())
	assert.Equal(t, 10*time.Second, cfg.OperationCompletionTimeout())
	assert.Equal(t, 100*time.Millisecond, cfg.DiscardTimeout())
	assert.Equal(t, profile.Scpi, cfg.Language())
	assert.Equal(t, profile.For(profile.Scpi), cfg.Profile())

	params := cfg.PollParams(time.Second)
	assert.Equal(t, time.Second, params.Timeout)
	assert.Equal(t, poll.DefaultPollInterval, params.PollInterval)
	assert.Zero(t, params.OnsetDelay)
	assert.Nil(t, params.Yield)
}

func TestNewConfig_Options(t *testing.T) {
	p := profile.For(profile.Tsp)
	p.ResetRefractoryPeriod = time.Second

	cfg, err := NewConfig(
		WithTimeout(3*time.Second),
		WithStatusReadDelay(time.Millisecond),
		WithReadAfterWriteDelay(2*time.Millisecond),
		WithPostWriteDelay(3*time.Millisecond),
		WithOperationCompletionTimeout(time.Minute),
		WithDiscardTimeout(time.Second),
		WithPollInterval(10*time.Millisecond),
		WithPollOnsetDelay(20*time.Millisecond),
		WithProfile(p),
	)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Timeout())
	assert.Equal(t, time.Millisecond, cfg.StatusReadDelay())
	assert.Equal(t, 2*time.Millisecond, cfg.ReadAfterWriteDelay())
	assert.Equal(t, 3*time.Millisecond, cfg.PostWriteDelay())
	assert.Equal(t, time.Minute, cfg.OperationCompletionTimeout())
	assert.Equal(t, time.Second, cfg.DiscardTimeout())
	assert.Equal(t, 10*time.Millisecond, cfg.PollParams(0).PollInterval)
	assert.Equal(t, 20*time.Millisecond, cfg.PollParams(0).OnsetDelay)
	assert.Equal(t, profile.Tsp, cfg.Language())
	assert.Equal(t, p, cfg.Profile())

	// selecting a language drops the custom profile
	cfg, err = NewConfig(WithProfile(p), WithLanguage(profile.Scpi))
	require.NoError(t, err)
	assert.Equal(t, profile.For(profile.Scpi), cfg.Profile())
}

func TestNewConfig_InvalidOptions(t *testing.T) {
	invalid := []Option{
		WithTimeout(0),
		WithStatusReadDelay(-time.Millisecond),
		WithReadAfterWriteDelay(2 * time.Second),
		WithPostWriteDelay(time.Minute),
		WithOperationCompletionTimeout(0),
		WithDiscardTimeout(time.Minute),
		WithPollInterval(0),
		WithPollOnsetDelay(time.Hour),
		WithLanguage(profile.Language(9)),
		WithLogger(nil),
	}

	for _, opt := range invalid {
		_, err := NewConfig(opt)
		require.Error(t, err)
	}

	require.ErrorIs(t, WithTimeout(time.Second).apply(nil), ErrConfigNil)
}

func TestCompletion_String(t *testing.T) {
	assert.Equal(t, "Unknown", CompletionUnknown.String())
	assert.Equal(t, "Incomplete", CompletionIncomplete.String())
	assert.Equal(t, "Completed", CompletionCompleted.String())
	assert.Equal(t, "Invalid", Completion(7).String())
}
