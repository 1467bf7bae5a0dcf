package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/go-instrument/logger"
	"github.com/arloliu/go-instrument/poll"
	"github.com/arloliu/go-instrument/profile"
)

// Config holds the timing and language settings of a session.
type Config struct {
	mu sync.RWMutex

	// timeout is the transport communication timeout. Zero keeps the transport's own timeout.
	// Defaults to 0.
	timeout time.Duration

	// statusReadDelay is waited before re-sampling the status byte while draining the error queue.
	// Defaults to 0.
	statusReadDelay time.Duration

	// readAfterWriteDelay is waited between writing a query and reading its reply.
	// Defaults to 0.
	readAfterWriteDelay time.Duration

	// postWriteDelay is waited after commands that change instrument state, e.g. enable registers,
	// and before reading an operation-complete reply.
	// Defaults to 0.
	postWriteDelay time.Duration

	// operationCompletionTimeout widens the communication timeout while waiting for an
	// operation-complete reply.
	// Defaults to 10 seconds.
	operationCompletionTimeout time.Duration

	// discardTimeout bounds reading and dropping undelivered messages.
	// Defaults to 100 milliseconds.
	discardTimeout time.Duration

	// pollInterval is the interval between status byte samples of a wait.
	// Defaults to poll.DefaultPollInterval.
	pollInterval time.Duration

	// pollOnsetDelay is waited before the first status byte sample of a wait.
	// Defaults to 0.
	pollOnsetDelay time.Duration

	// yield is invoked between status byte samples of a wait.
	// Defaults to nil, a no-op.
	yield func()

	// language selects the built-in profile. Ignored when profile is set.
	// Defaults to profile.Scpi.
	language profile.Language

	// profile overrides the built-in profile of language.
	profile *profile.Profile

	logger logger.Logger
}

// NewConfig creates a session configuration with the defaults, modified by opts.
//
// Each option validates its value; the first failing option aborts and its error is returned.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		operationCompletionTimeout: 10 * time.Second,
		discardTimeout:             100 * time.Millisecond,
		pollInterval:               poll.DefaultPollInterval,
		language:                   profile.Scpi,
		logger:                     logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

func (cfg *Config) Timeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.timeout
}

func (cfg *Config) StatusReadDelay() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.statusReadDelay
}

func (cfg *Config) ReadAfterWriteDelay() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.readAfterWriteDelay
}

func (cfg *Config) PostWriteDelay() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.postWriteDelay
}

func (cfg *Config) OperationCompletionTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.operationCompletionTimeout
}

func (cfg *Config) DiscardTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.discardTimeout
}

// PollParams returns the wait parameters for a status wait bounded by timeout.
func (cfg *Config) PollParams(timeout time.Duration) poll.Params {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return poll.Params{
		Timeout:      timeout,
		OnsetDelay:   cfg.pollOnsetDelay,
		PollInterval: cfg.pollInterval,
		Yield:        cfg.yield,
	}
}

func (cfg *Config) Language() profile.Language {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.language
}

// Profile returns the profile a new session starts with.
func (cfg *Config) Profile() profile.Profile {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	if cfg.profile != nil {
		return *cfg.profile
	}

	return profile.For(cfg.language)
}

func (cfg *Config) Logger() logger.Logger {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.logger
}

// Option represents a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
	isRuntime() bool
}

type optFunc struct {
	name      string
	runtime   bool
	applyFunc func(*Config) error
}

func (o *optFunc) apply(cfg *Config) error {
	if cfg == nil {
		return ErrConfigNil
	}

	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	if err := o.applyFunc(cfg); err != nil {
		return fmt.Errorf("%s: %w", o.name, err)
	}

	return nil
}

func (o *optFunc) isRuntime() bool { return o.runtime }

func newOptFunc(name string, runtime bool, f func(*Config) error) *optFunc {
	return &optFunc{name: name, runtime: runtime, applyFunc: f}
}

func durationInRange(name string, val, lower, upper time.Duration) error {
	if val < lower || val > upper {
		return fmt.Errorf("%s out of range [%v, %v]", name, lower, upper)
	}

	return nil
}

// WithTimeout sets the transport communication timeout. It should be between 1 millisecond and 10 minutes.
//
// The default value is 0, which keeps the transport timeout.
//
// This option can be changed at runtime.
func WithTimeout(val time.Duration) Option {
	return newOptFunc("WithTimeout", true, func(cfg *Config) error {
		if err := durationInRange("timeout", val, time.Millisecond, 10*time.Minute); err != nil {
			return err
		}
		cfg.timeout = val

		return nil
	})
}

// WithStatusReadDelay sets the delay before re-sampling the status byte while draining errors.
// It should be between 0 and 1 second.
//
// The default value is 0.
//
// This option can be changed at runtime.
func WithStatusReadDelay(val time.Duration) Option {
	return newOptFunc("WithStatusReadDelay", true, func(cfg *Config) error {
		if err := durationInRange("status read delay", val, 0, time.Second); err != nil {
			return err
		}
		cfg.statusReadDelay = val

		return nil
	})
}

// WithReadAfterWriteDelay sets the delay between writing a query and reading the reply.
// It should be between 0 and 1 second.
//
// The default value is 0.
//
// This option can be changed at runtime.
func WithReadAfterWriteDelay(val time.Duration) Option {
	return newOptFunc("WithReadAfterWriteDelay", true, func(cfg *Config) error {
		if err := durationInRange("read after write delay", val, 0, time.Second); err != nil {
			return err
		}
		cfg.readAfterWriteDelay = val

		return nil
	})
}

// WithPostWriteDelay sets the delay after state changing commands. It should be between 0 and 1 second.
//
// The default value is 0.
//
// This option can be changed at runtime.
func WithPostWriteDelay(val time.Duration) Option {
	return newOptFunc("WithPostWriteDelay", true, func(cfg *Config) error {
		if err := durationInRange("post write delay", val, 0, time.Second); err != nil {
			return err
		}
		cfg.postWriteDelay = val

		return nil
	})
}

// WithOperationCompletionTimeout sets the timeout of operation-complete replies.
// It should be between 1 millisecond and 1 hour.
//
// The default value is 10 seconds.
//
// This option can be changed at runtime.
func WithOperationCompletionTimeout(val time.Duration) Option {
	return newOptFunc("WithOperationCompletionTimeout", true, func(cfg *Config) error {
		if err := durationInRange("operation completion timeout", val, time.Millisecond, time.Hour); err != nil {
			return err
		}
		cfg.operationCompletionTimeout = val

		return nil
	})
}

// WithDiscardTimeout sets the bound of discarding undelivered messages.
// It should be between 1 millisecond and 10 seconds.
//
// The default value is 100 milliseconds.
//
// This option can be changed at runtime.
func WithDiscardTimeout(val time.Duration) Option {
	return newOptFunc("WithDiscardTimeout", true, func(cfg *Config) error {
		if err := durationInRange("discard timeout", val, time.Millisecond, 10*time.Second); err != nil {
			return err
		}
		cfg.discardTimeout = val

		return nil
	})
}

// WithPollInterval sets the interval between status byte samples of a wait.
// It should be between 1 millisecond and 10 seconds.
//
// The default value is 5 milliseconds.
//
// This option can be changed at runtime.
func WithPollInterval(val time.Duration) Option {
	return newOptFunc("WithPollInterval", true, func(cfg *Config) error {
		if err := durationInRange("poll interval", val, time.Millisecond, 10*time.Second); err != nil {
			return err
		}
		cfg.pollInterval = val

		return nil
	})
}

// WithPollOnsetDelay sets the delay before the first status byte sample of a wait.
// It should be between 0 and 10 seconds.
//
// The default value is 0.
//
// This option can be changed at runtime.
func WithPollOnsetDelay(val time.Duration) Option {
	return newOptFunc("WithPollOnsetDelay", true, func(cfg *Config) error {
		if err := durationInRange("poll onset delay", val, 0, 10*time.Second); err != nil {
			return err
		}
		cfg.pollOnsetDelay = val

		return nil
	})
}

// WithYield sets the function invoked between status byte samples of a wait,
// e.g. to keep a host event loop responsive. A nil function disables it.
//
// This option can be changed at runtime.
func WithYield(f func()) Option {
	return newOptFunc("WithYield", true, func(cfg *Config) error {
		cfg.yield = f
		return nil
	})
}

// WithLanguage selects the built-in profile of lang.
//
// The default value is profile.Scpi.
//
// This option can't be changed at runtime; use Session.ApplyLanguage instead.
func WithLanguage(lang profile.Language) Option {
	return newOptFunc("WithLanguage", false, func(cfg *Config) error {
		if lang != profile.Scpi && lang != profile.Tsp {
			return fmt.Errorf("unknown language %v", lang)
		}
		cfg.language = lang
		cfg.profile = nil

		return nil
	})
}

// WithProfile replaces the built-in profile with p, e.g. a built-in profile with adjusted commands.
//
// This option can't be changed at runtime; use Session.ApplyProfile instead.
func WithProfile(p profile.Profile) Option {
	return newOptFunc("WithProfile", false, func(cfg *Config) error {
		cfg.language = p.Language
		cfg.profile = &p

		return nil
	})
}

// WithLogger sets the logger. The session adds the resource name to every entry.
//
// The default value is the process logger returned by logger.GetLogger.
//
// This option can't be changed at runtime.
func WithLogger(l logger.Logger) Option {
	return newOptFunc("WithLogger", false, func(cfg *Config) error {
		if l == nil {
			return errors.New("logger is nil")
		}
		cfg.logger = l

		return nil
	})
}
