package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/arloliu/go-instrument/internal/pool"
	"github.com/arloliu/go-instrument/internal/util"
	"github.com/arloliu/go-instrument/profile"
	"github.com/arloliu/go-instrument/status"
	"github.com/arloliu/go-instrument/transport"
)

// WriteLine writes text to the instrument.
//
// When the active profile splits common commands, each ';' separated fragment is written on its
// own. Between fragments the session waits the refractory period of a reset or clear fragment,
// otherwise the post-write delay.
func (s *Session) WriteLine(ctx context.Context, text string) error {
	if err := s.checkOpened(); err != nil {
		return err
	}

	p := s.Profile()
	fragments := p.SplitCommands(text)
	for i, fragment := range fragments {
		if i > 0 {
			delay := s.cfg.PostWriteDelay()
			if d, ok := p.RefractoryPeriodFor(fragments[i-1]); ok {
				delay = d
			}
			if err := pool.Sleep(ctx, delay); err != nil {
				return err
			}
		}

		if err := s.writeFragment(ctx, fragment); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) writeFragment(ctx context.Context, fragment string) error {
	sent, err := s.tr.WriteLine(ctx, fragment)
	if err != nil {
		s.metrics.incIOErrCount()
		return fmt.Errorf("session: write %q: %w", fragment, err)
	}

	s.metrics.incWriteCount()
	s.mu.Lock()
	s.lastSent = sent
	s.mu.Unlock()

	return nil
}

// WriteLineIfNoDeviceError samples the status byte and writes text only when the instrument
// reports no queued error. A pending error is returned as ErrInvalidOperation wrapping a
// *DeviceFaultError, and text is not written. When a message is waiting too, the errors are not
// drained and the fault has Pending set.
func (s *Session) WriteLineIfNoDeviceError(ctx context.Context, text string) error {
	stb, report, err := s.sampleAndApply(ctx)
	if err != nil {
		return err
	}

	if s.register.Decode(status.CategoryError, stb) {
		if s.register.Decode(status.CategoryMessage, stb) {
			fault := &DeviceFaultError{Resource: s.tr.ResourceName(), Pending: true}
			s.logger.Warn("device error behind pending message, write rejected", "command", text, "status", stb)

			return fmt.Errorf("%w: %w", ErrInvalidOperation, fault)
		}

		fault := s.deviceFault(report)
		s.logger.Warn("device error pending, write rejected", "command", text, "error", fault.Last.String())

		return fmt.Errorf("%w: %w", ErrInvalidOperation, fault)
	}

	return s.WriteLine(ctx, text)
}

// ReadLine reads one line from the instrument.
func (s *Session) ReadLine(ctx context.Context) (string, error) {
	if err := s.checkOpened(); err != nil {
		return "", err
	}

	line, err := s.tr.ReadLine(ctx)
	if err != nil {
		s.metrics.incIOErrCount()
		return "", fmt.Errorf("session: read: %w", err)
	}

	s.metrics.incReadCount()
	s.mu.Lock()
	s.lastReceived = line
	s.mu.Unlock()

	return line, nil
}

// QueryLine writes query, waits the read-after-write delay and reads the reply.
func (s *Session) QueryLine(ctx context.Context, query string) (string, error) {
	if err := s.WriteLine(ctx, query); err != nil {
		return "", err
	}

	if err := pool.Sleep(ctx, s.cfg.ReadAfterWriteDelay()); err != nil {
		return "", err
	}

	return s.ReadLine(ctx)
}

// QueryInt queries a numeric value. Replies in floating point notation are truncated.
func (s *Session) QueryInt(ctx context.Context, query string) (int, error) {
	reply, err := s.QueryLine(ctx, query)
	if err != nil {
		return 0, err
	}

	v, err := util.ParseInt(reply)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidReply, query, err)
	}

	return v, nil
}

// QueryIdentity queries and caches the instrument identity string.
func (s *Session) QueryIdentity(ctx context.Context) (string, error) {
	cmd := s.Profile().IdentityQueryCommand
	if !profile.Supported(cmd) {
		return "", ErrNotSupported
	}

	id, err := s.QueryLine(ctx, cmd)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()

	return id, nil
}

// Identity returns the identity string of the last QueryIdentity.
func (s *Session) Identity() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.identity
}

// ReadStatusByte samples the status byte and applies it. The returned value is the sample,
// taken before any error drain it triggered.
func (s *Session) ReadStatusByte(ctx context.Context) (int, error) {
	stb, _, err := s.sampleAndApply(ctx)
	return stb, err
}

// ApplyStatusByte applies a status byte obtained elsewhere, e.g. from a service request event,
// and returns the report of the error drain it triggered.
func (s *Session) ApplyStatusByte(ctx context.Context, stb int) string {
	return s.register.Apply(ctx, stb)
}

// ServiceRequestStatus returns the most recently applied status byte.
func (s *Session) ServiceRequestStatus() int {
	return s.register.ServiceRequestStatus()
}

func (s *Session) sampleStatusByte(ctx context.Context) (int, error) {
	if err := s.checkOpened(); err != nil {
		return 0, err
	}

	stb, err := s.tr.ReadStatusByte(ctx)
	if err != nil {
		s.metrics.incIOErrCount()
		return 0, fmt.Errorf("session: read status byte: %w", err)
	}
	s.metrics.incStatusReadCount()

	return stb, nil
}

func (s *Session) sampleAndApply(ctx context.Context) (int, string, error) {
	stb, err := s.sampleStatusByte(ctx)
	if err != nil {
		return 0, "", err
	}

	return stb, s.register.Apply(ctx, stb), nil
}

// DiscardUnreadData reads and drops undelivered lines until none arrives within the discard
// timeout, then drops any pending events. It returns the number of lines dropped.
func (s *Session) DiscardUnreadData(ctx context.Context) (int, error) {
	if err := s.checkOpened(); err != nil {
		return 0, err
	}

	timeout := s.cfg.DiscardTimeout()
	prev := s.tr.Timeout()
	s.tr.SetTimeout(timeout)
	defer s.tr.SetTimeout(prev)

	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	count := 0
	for {
		line, err := s.tr.ReadLine(dctx)
		if err != nil {
			if ctx.Err() != nil {
				return count, ctx.Err()
			}
			if !errors.Is(err, transport.ErrTimeout) && !errors.Is(err, context.DeadlineExceeded) {
				s.metrics.incIOErrCount()
				return count, fmt.Errorf("session: discard: %w", err)
			}

			break
		}

		count++
		s.metrics.incDiscardCount()
		s.logger.Debug("unread data discarded", "text", util.EscapeControl(line))
	}

	if err := s.tr.DiscardAllEvents(); err != nil {
		return count, fmt.Errorf("session: discard events: %w", err)
	}

	return count, nil
}
