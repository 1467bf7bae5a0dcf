package session

import (
	"context"
	"time"

	"github.com/arloliu/go-instrument/poll"
	"github.com/arloliu/go-instrument/status"
)

// AwaitStatus samples the status byte until every bit of mask is set or timeout elapses.
// A non-positive timeout samples once.
func (s *Session) AwaitStatus(ctx context.Context, mask int, timeout time.Duration) (poll.Outcome[int], error) {
	return s.await(ctx, timeout, poll.AllBits(mask))
}

// AwaitAnyStatus samples the status byte until any bit of mask is set or timeout elapses.
func (s *Session) AwaitAnyStatus(ctx context.Context, mask int, timeout time.Duration) (poll.Outcome[int], error) {
	return s.await(ctx, timeout, poll.AnyBit(mask))
}

// AwaitOperationCompletion waits for the standard event summary raised by the operation complete event.
func (s *Session) AwaitOperationCompletion(ctx context.Context, timeout time.Duration) (poll.Outcome[int], error) {
	out, err := s.AwaitStatus(ctx, s.register.Bitmasks().Mask(status.CategoryStandardEvent), timeout)
	if err == nil {
		s.setCompletion(completionOf(!out.TimedOut && s.register.Decode(status.CategoryStandardEvent, out.Value)))
	}

	return out, err
}

// AwaitServiceRequest waits for the request service bit.
func (s *Session) AwaitServiceRequest(ctx context.Context, timeout time.Duration) (poll.Outcome[int], error) {
	return s.AwaitStatus(ctx, s.register.Bitmasks().Mask(status.CategoryRequestingService), timeout)
}

// AwaitErrorOrMessageAvailable waits for queued errors or a pending message.
func (s *Session) AwaitErrorOrMessageAvailable(ctx context.Context, timeout time.Duration) (poll.Outcome[int], error) {
	b := s.register.Bitmasks()
	return s.AwaitAnyStatus(ctx, b.Mask(status.CategoryError)|b.Mask(status.CategoryMessage), timeout)
}

// AwaitStatusReady waits until none of the busy bits is set.
func (s *Session) AwaitStatusReady(ctx context.Context, timeout time.Duration) (poll.Outcome[int], error) {
	return s.await(ctx, timeout, poll.NoBit(s.register.Bitmasks().Busy()))
}

// AwaitStatusBusy waits until any of the busy bits is set.
func (s *Session) AwaitStatusBusy(ctx context.Context, timeout time.Duration) (poll.Outcome[int], error) {
	return s.await(ctx, timeout, poll.AnyBit(s.register.Bitmasks().Busy()))
}

func (s *Session) await(ctx context.Context, timeout time.Duration, predicate poll.Predicate[int]) (poll.Outcome[int], error) {
	out, err := poll.Await(ctx, s.cfg.PollParams(timeout), func() (int, error) {
		return s.ReadStatusByte(ctx)
	}, predicate)

	if out.TimedOut {
		s.metrics.incPollTimeoutCount()
		s.logger.Debug("status wait timed out", "timeout", timeout, "stb", out.Value, "samples", out.Samples)
	}

	return out, err
}
