package config

import (
	"fmt"
	"strings"

	"github.com/arloliu/go-instrument/logger"
	"github.com/arloliu/go-instrument/profile"
	"github.com/arloliu/go-instrument/transport"
)

// Validate checks the settings that can't be checked by the option they map to, and
// then every mapped option against a scratch configuration. It doesn't modify s.
func (s *Settings) Validate() error {
	if s == nil {
		return ErrSettingsNil
	}

	if strings.TrimSpace(s.Resource) == "" {
		return fmt.Errorf("%w: resource is required", ErrInvalidSettings)
	}
	if _, err := transport.ParseResourceName(s.Resource); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	if s.Language != "" {
		if _, err := profile.ParseLanguage(s.Language); err != nil {
			return fmt.Errorf("%w: language: %w", ErrInvalidSettings, err)
		}
	}

	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidSettings, err)
	}

	if _, err := s.SessionOptions(); err != nil {
		return err
	}
	if _, err := s.TransportOptions(); err != nil {
		return err
	}

	return nil
}

// parseTermination accepts "lf", "cr" or a single character.
func parseTermination(val string) (byte, error) {
	switch strings.ToLower(val) {
	case "lf", `\n`:
		return '\n', nil
	case "cr", `\r`:
		return '\r', nil
	}

	if len(val) != 1 {
		return 0, fmt.Errorf("termination %q must be lf, cr or a single character", val)
	}

	return val[0], nil
}

func parseParity(val string) (transport.Parity, error) {
	p := transport.Parity(strings.ToLower(val))
	switch p {
	case transport.ParityNone, transport.ParityOdd, transport.ParityEven, transport.ParityMark, transport.ParitySpace:
		return p, nil
	default:
		return "", fmt.Errorf("unknown parity %q", val)
	}
}
