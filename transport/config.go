package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-instrument/logger"
)

// Parity is the serial parity mode.
type Parity string

const (
	ParityNone  Parity = "none"
	ParityOdd   Parity = "odd"
	ParityEven  Parity = "even"
	ParityMark  Parity = "mark"
	ParitySpace Parity = "space"
)

// DefaultStatusQuery is the status byte query of IEEE-488.2 instruments.
const DefaultStatusQuery = "*STB?"

// Config holds the settings shared by the built-in transports.
type Config struct {
	// timeout bounds every write and read.
	// Defaults to 2 seconds.
	timeout time.Duration

	// termination ends every line written and read.
	// Defaults to '\n'.
	termination byte

	// statusQuery is the query answered with the status byte.
	// Defaults to "*STB?".
	statusQuery string

	// dialTimeout bounds connecting a socket.
	// Defaults to 3 seconds.
	dialTimeout time.Duration

	// Serial line settings. Defaults to 9600 baud, 8 data bits, 1 stop bit, no parity.
	baudRate int
	dataBits int
	stopBits int
	parity   Parity

	logger logger.Logger
}

// NewConfig returns a Config with the defaults, modified by opts.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		timeout:     2 * time.Second,
		termination: '\n',
		statusQuery: DefaultStatusQuery,
		dialTimeout: 3 * time.Second,
		baudRate:    9600,
		dataBits:    8,
		stopBits:    1,
		parity:      ParityNone,
		logger:      logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

func (cfg *Config) Timeout() time.Duration     { return cfg.timeout }
func (cfg *Config) Termination() byte          { return cfg.termination }
func (cfg *Config) StatusQuery() string        { return cfg.statusQuery }
func (cfg *Config) DialTimeout() time.Duration { return cfg.dialTimeout }
func (cfg *Config) BaudRate() int              { return cfg.baudRate }
func (cfg *Config) DataBits() int              { return cfg.dataBits }
func (cfg *Config) StopBits() int              { return cfg.stopBits }
func (cfg *Config) Parity() Parity             { return cfg.parity }
func (cfg *Config) Logger() logger.Logger      { return cfg.logger }

// Option represents a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc struct {
	name      string
	applyFunc func(*Config) error
}

func (o *optFunc) apply(cfg *Config) error {
	if cfg == nil {
		return ErrConfigNil
	}

	if err := o.applyFunc(cfg); err != nil {
		return fmt.Errorf("%s: %w", o.name, err)
	}

	return nil
}

func newOptFunc(name string, f func(*Config) error) *optFunc {
	return &optFunc{name: name, applyFunc: f}
}

// WithTimeout sets the I/O timeout. It should be between 1 millisecond and 10 minutes.
//
// The default value is 2 seconds.
func WithTimeout(val time.Duration) Option {
	return newOptFunc("WithTimeout", func(cfg *Config) error {
		if val < time.Millisecond || val > 10*time.Minute {
			return errors.New("timeout out of range [1ms, 10m]")
		}
		cfg.timeout = val

		return nil
	})
}

// WithTermination sets the line termination character.
//
// The default value is '\n'.
func WithTermination(val byte) Option {
	return newOptFunc("WithTermination", func(cfg *Config) error {
		if val == 0 {
			return errors.New("termination must not be NUL")
		}
		cfg.termination = val

		return nil
	})
}

// WithStatusQuery sets the query used to sample the status byte.
//
// The default value is "*STB?".
func WithStatusQuery(cmd string) Option {
	return newOptFunc("WithStatusQuery", func(cfg *Config) error {
		if cmd == "" {
			return errors.New("status query must not be empty")
		}
		cfg.statusQuery = cmd

		return nil
	})
}

// WithDialTimeout sets the timeout for connecting a socket resource. It should be between
// 1 millisecond and 1 minute.
//
// The default value is 3 seconds.
func WithDialTimeout(val time.Duration) Option {
	return newOptFunc("WithDialTimeout", func(cfg *Config) error {
		if val < time.Millisecond || val > time.Minute {
			return errors.New("dial timeout out of range [1ms, 1m]")
		}
		cfg.dialTimeout = val

		return nil
	})
}

// WithBaudRate sets the serial baud rate.
//
// The default value is 9600.
func WithBaudRate(val int) Option {
	return newOptFunc("WithBaudRate", func(cfg *Config) error {
		if val <= 0 {
			return errors.New("baud rate must be positive")
		}
		cfg.baudRate = val

		return nil
	})
}

// WithDataBits sets the serial data bits, 5 to 8.
//
// The default value is 8.
func WithDataBits(val int) Option {
	return newOptFunc("WithDataBits", func(cfg *Config) error {
		if val < 5 || val > 8 {
			return errors.New("data bits out of range [5, 8]")
		}
		cfg.dataBits = val

		return nil
	})
}

// WithStopBits sets the serial stop bits, 1 or 2.
//
// The default value is 1.
func WithStopBits(val int) Option {
	return newOptFunc("WithStopBits", func(cfg *Config) error {
		if val != 1 && val != 2 {
			return errors.New("stop bits must be 1 or 2")
		}
		cfg.stopBits = val

		return nil
	})
}

// WithParity sets the serial parity.
//
// The default value is ParityNone.
func WithParity(val Parity) Option {
	return newOptFunc("WithParity", func(cfg *Config) error {
		switch val {
		case ParityNone, ParityOdd, ParityEven, ParityMark, ParitySpace:
			cfg.parity = val
			return nil
		default:
			return fmt.Errorf("unknown parity %q", string(val))
		}
	})
}

// WithLogger sets the logger.
//
// The default value is the process logger returned by logger.GetLogger.
func WithLogger(l logger.Logger) Option {
	return newOptFunc("WithLogger", func(cfg *Config) error {
		if l == nil {
			return errors.New("logger is nil")
		}
		cfg.logger = l

		return nil
	})
}
