package config

import (
	"fmt"
	"time"

	"github.com/arloliu/go-instrument/profile"
	"github.com/arloliu/go-instrument/session"
	"github.com/arloliu/go-instrument/transport"
)

// sessionSetting maps one settings key onto a session option. set reports whether the key
// was given.
type sessionSetting struct {
	key    string
	set    func(*Settings) bool
	option func(*Settings) (session.Option, error)
}

type transportSetting struct {
	key    string
	set    func(*TransportSettings) bool
	option func(*TransportSettings) (transport.Option, error)
}

func durationSetting(key string, get func(*Settings) time.Duration, opt func(time.Duration) session.Option) sessionSetting {
	return sessionSetting{
		key: key,
		set: func(s *Settings) bool { return get(s) != 0 },
		option: func(s *Settings) (session.Option, error) {
			return opt(get(s)), nil
		},
	}
}

var sessionSettings = []sessionSetting{
	{
		key: "language",
		set: func(s *Settings) bool { return s.Language != "" },
		option: func(s *Settings) (session.Option, error) {
			lang, err := profile.ParseLanguage(s.Language)
			if err != nil {
				return nil, err
			}

			return session.WithLanguage(lang), nil
		},
	},
	durationSetting("operation_completion_timeout",
		func(s *Settings) time.Duration { return s.OperationCompletionTimeout }, session.WithOperationCompletionTimeout),
	durationSetting("status_read_delay",
		func(s *Settings) time.Duration { return s.StatusReadDelay }, session.WithStatusReadDelay),
	durationSetting("read_after_write_delay",
		func(s *Settings) time.Duration { return s.ReadAfterWriteDelay }, session.WithReadAfterWriteDelay),
	durationSetting("post_write_delay",
		func(s *Settings) time.Duration { return s.PostWriteDelay }, session.WithPostWriteDelay),
	durationSetting("discard_timeout",
		func(s *Settings) time.Duration { return s.DiscardTimeout }, session.WithDiscardTimeout),
	durationSetting("poll_interval",
		func(s *Settings) time.Duration { return s.PollInterval }, session.WithPollInterval),
	durationSetting("poll_onset_delay",
		func(s *Settings) time.Duration { return s.PollOnsetDelay }, session.WithPollOnsetDelay),
}

var transportSettings = []transportSetting{
	{
		key: "termination",
		set: func(t *TransportSettings) bool { return t.Termination != "" },
		option: func(t *TransportSettings) (transport.Option, error) {
			term, err := parseTermination(t.Termination)
			if err != nil {
				return nil, err
			}

			return transport.WithTermination(term), nil
		},
	},
	{
		key: "status_query",
		set: func(t *TransportSettings) bool { return t.StatusQuery != "" },
		option: func(t *TransportSettings) (transport.Option, error) {
			return transport.WithStatusQuery(t.StatusQuery), nil
		},
	},
	{
		key: "dial_timeout",
		set: func(t *TransportSettings) bool { return t.DialTimeout != 0 },
		option: func(t *TransportSettings) (transport.Option, error) {
			return transport.WithDialTimeout(t.DialTimeout), nil
		},
	},
	{
		key: "baud_rate",
		set: func(t *TransportSettings) bool { return t.BaudRate != 0 },
		option: func(t *TransportSettings) (transport.Option, error) {
			return transport.WithBaudRate(t.BaudRate), nil
		},
	},
	{
		key: "data_bits",
		set: func(t *TransportSettings) bool { return t.DataBits != 0 },
		option: func(t *TransportSettings) (transport.Option, error) {
			return transport.WithDataBits(t.DataBits), nil
		},
	},
	{
		key: "stop_bits",
		set: func(t *TransportSettings) bool { return t.StopBits != 0 },
		option: func(t *TransportSettings) (transport.Option, error) {
			return transport.WithStopBits(t.StopBits), nil
		},
	},
	{
		key: "parity",
		set: func(t *TransportSettings) bool { return t.Parity != "" },
		option: func(t *TransportSettings) (transport.Option, error) {
			p, err := parseParity(t.Parity)
			if err != nil {
				return nil, err
			}

			return transport.WithParity(p), nil
		},
	},
}

// SessionOptions returns the session options of the given settings, in mapping table order.
// Each option is validated against a scratch configuration.
func (s *Settings) SessionOptions() ([]session.Option, error) {
	if s == nil {
		return nil, ErrSettingsNil
	}

	opts := make([]session.Option, 0, len(sessionSettings))
	for _, entry := range sessionSettings {
		if !entry.set(s) {
			continue
		}

		opt, err := entry.option(s)
		if err == nil {
			_, err = session.NewConfig(opt)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSettings, entry.key, err)
		}

		opts = append(opts, opt)
	}

	return opts, nil
}

// TransportOptions returns the transport options of the given settings, in mapping table order.
// The timeout is not included; it is passed to transport.Open by Open.
func (s *Settings) TransportOptions() ([]transport.Option, error) {
	if s == nil {
		return nil, ErrSettingsNil
	}

	opts := make([]transport.Option, 0, len(transportSettings)+1)
	if s.Timeout != 0 {
		if _, err := transport.NewConfig(transport.WithTimeout(s.Timeout)); err != nil {
			return nil, fmt.Errorf("%w: timeout: %w", ErrInvalidSettings, err)
		}
	}

	for _, entry := range transportSettings {
		if !entry.set(&s.Transport) {
			continue
		}

		opt, err := entry.option(&s.Transport)
		if err == nil {
			_, err = transport.NewConfig(opt)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: transport.%s: %w", ErrInvalidSettings, entry.key, err)
		}

		opts = append(opts, opt)
	}

	return opts, nil
}
