package config

import (
	"context"
	"fmt"

	"github.com/arloliu/go-instrument/logger"
	"github.com/arloliu/go-instrument/session"
	"github.com/arloliu/go-instrument/transport"
)

// Logger returns the logger selected by log_level. Without log_level the process logger is returned.
func (s *Settings) Logger() (logger.Logger, error) {
	if s == nil {
		return nil, ErrSettingsNil
	}
	if s.LogLevel == "" {
		return logger.GetLogger(), nil
	}

	level, err := logger.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: log_level: %w", ErrInvalidSettings, err)
	}

	return logger.NewSlog(level, false), nil
}

// Open validates s, opens the transport of its resource and creates a session over it.
// The session owns the transport.
func Open(ctx context.Context, s *Settings) (*session.Session, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	l, err := s.Logger()
	if err != nil {
		return nil, err
	}

	tropts, err := s.TransportOptions()
	if err != nil {
		return nil, err
	}
	sopts, err := s.SessionOptions()
	if err != nil {
		return nil, err
	}

	cfg, err := session.NewConfig(append(sopts, session.WithLogger(l))...)
	if err != nil {
		return nil, err
	}

	tr, err := transport.Open(ctx, s.Resource, s.Timeout, append(tropts, transport.WithLogger(l))...)
	if err != nil {
		return nil, err
	}

	sess, err := session.NewSession(tr, cfg)
	if err != nil {
		_ = tr.Close()
		return nil, err
	}

	l.Info("instrument session opened", "resource", s.Resource, "language", sess.Language().String())

	return sess, nil
}
