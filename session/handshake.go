package session

import (
	"context"
	"fmt"
	"time"

	"github.com/arloliu/go-instrument/internal/pool"
	"github.com/arloliu/go-instrument/profile"
	"github.com/arloliu/go-instrument/transport"
)

// executeAndWaitComplete writes cmd and reads the operation-complete reply under the operation
// completion timeout. The transport timeout is restored afterwards.
func (s *Session) executeAndWaitComplete(ctx context.Context, p profile.Profile, cmd string) (bool, error) {
	if err := s.WriteLine(ctx, cmd); err != nil {
		return false, err
	}

	if err := pool.Sleep(ctx, s.cfg.PostWriteDelay()); err != nil {
		return false, err
	}

	prev := s.tr.Timeout()
	if t := s.cfg.OperationCompletionTimeout(); t > prev {
		s.tr.SetTimeout(t)
	}
	defer s.tr.SetTimeout(prev)

	reply, err := s.ReadLine(ctx)
	if err != nil {
		s.setCompletion(CompletionIncomplete)
		return false, err
	}

	completed := p.IsOperationCompletedReply(reply)
	s.setCompletion(completionOf(completed))
	if !completed {
		s.logger.Warn("unexpected operation completion reply", "command", cmd, "reply", reply)
	}

	return completed, nil
}

// executeAndWaitRefractory writes cmd, which has no completion signal, and waits its refractory period.
func (s *Session) executeAndWaitRefractory(ctx context.Context, cmd string, d time.Duration) (bool, error) {
	if err := s.WriteLine(ctx, cmd); err != nil {
		return false, err
	}

	if err := pool.Sleep(ctx, d); err != nil {
		return false, err
	}
	s.setCompletion(CompletionCompleted)

	return true, nil
}

// ClearExecutionState clears the status data structures of the instrument and waits for completion.
//
// When the command language clears the enable registers as a side effect, they are read before
// and restored after clearing. When it does not flush the error queue, the queue is drained and
// cleared afterwards.
//
// It returns whether the instrument confirmed completion; see also OperationCompleted.
func (s *Session) ClearExecutionState(ctx context.Context) (bool, error) {
	p := s.Profile()
	s.setAction("clear execution state")

	restore := false
	var ese, sre int
	if p.StatusClearDistractive {
		var err error
		if ese, err = s.QueryStandardEventEnableBitmask(ctx); err != nil {
			return false, err
		}
		if sre, err = s.QueryServiceRequestEnableBitmask(ctx); err != nil {
			return false, err
		}
		restore = true
	}

	var completed bool
	var err error
	if p.SupportsClearWaitComplete() {
		completed, err = s.executeAndWaitComplete(ctx, p, p.ClearExecutionStateWaitCompleteCommand)
	} else {
		completed, err = s.executeAndWaitRefractory(ctx, p.ClearExecutionStateCommand, p.ClearRefractoryPeriod)
	}
	if err != nil {
		return false, err
	}

	if restore {
		if err := s.WriteStandardEventEnableBitmask(ctx, ese); err != nil {
			return completed, err
		}
		if err := s.WriteServiceRequestEnableBitmask(ctx, sre); err != nil {
			return completed, err
		}
	}

	if p.ClearsDeviceStructures {
		s.errors.Reset()
		s.mu.Lock()
		s.hasDeviceError = false
		s.mu.Unlock()

		return completed, nil
	}

	stb, err := s.sampleStatusByte(ctx)
	if err != nil {
		return completed, err
	}
	if _, err := s.QueryAndReportDeviceErrors(ctx, stb); err != nil {
		return completed, err
	}

	return completed, s.ClearErrorQueue(ctx)
}

// ResetKnownState resets the instrument to its known state and waits for completion.
// The status masks are re-armed with the profile defaults before waiting.
func (s *Session) ResetKnownState(ctx context.Context) (bool, error) {
	p := s.Profile()
	s.setAction("reset known state")
	s.register.ResetBitmasks(p.Bitmasks)

	if p.SupportsResetWaitComplete() {
		return s.executeAndWaitComplete(ctx, p, p.ResetKnownStateWaitCompleteCommand)
	}

	return s.executeAndWaitRefractory(ctx, p.ResetKnownStateCommand, p.ResetRefractoryPeriod)
}

// ResetClearInit resets the known state, clears the execution state and enables the service
// request events of the status masks.
func (s *Session) ResetClearInit(ctx context.Context) (bool, error) {
	resetDone, err := s.ResetKnownState(ctx)
	if err != nil {
		return false, fmt.Errorf("reset: %w", err)
	}

	clearDone, err := s.ClearExecutionState(ctx)
	if err != nil {
		return false, fmt.Errorf("clear: %w", err)
	}

	if err := s.EnableServiceRequestEvents(ctx, false); err != nil {
		return false, fmt.Errorf("init: %w", err)
	}

	return resetDone && clearDone, nil
}

// ClearActiveState sends a device clear, or drops unread data when the transport can't, and waits
// the device clear refractory period.
func (s *Session) ClearActiveState(ctx context.Context) error {
	if err := s.checkOpened(); err != nil {
		return err
	}

	p := s.Profile()
	s.setAction("clear active state")

	if dc, ok := s.tr.(transport.DeviceClearer); ok {
		if err := dc.DeviceClear(ctx); err != nil {
			s.metrics.incIOErrCount()
			return fmt.Errorf("session: device clear: %w", err)
		}
	} else if _, err := s.DiscardUnreadData(ctx); err != nil {
		return err
	}

	s.setCompletion(CompletionUnknown)

	return pool.Sleep(ctx, p.DeviceClearRefractoryPeriod)
}

// QueryOperationCompleted waits for pending operations with the operation-complete query.
func (s *Session) QueryOperationCompleted(ctx context.Context) (bool, error) {
	p := s.Profile()
	if !p.SupportsOperationCompletedQuery() {
		return false, ErrNotSupported
	}
	s.setAction("query operation completed")

	return s.executeAndWaitComplete(ctx, p, p.OperationCompletedQueryCommand)
}

// IssueOperationComplete sends the operation complete command, which sets the operation complete
// standard event once pending operations finish. See AwaitOperationCompletion.
func (s *Session) IssueOperationComplete(ctx context.Context) error {
	cmd := s.Profile().OperationCompleteCommand
	if !profile.Supported(cmd) {
		return ErrNotSupported
	}
	s.setAction("issue operation complete")
	s.setCompletion(CompletionIncomplete)

	return s.WriteLine(ctx, cmd)
}

// Wait sends the wait-to-continue command.
func (s *Session) Wait(ctx context.Context) error {
	cmd := s.Profile().WaitCommand
	if !profile.Supported(cmd) {
		return ErrNotSupported
	}

	return s.WriteLine(ctx, cmd)
}

// CollectGarbage runs the instrument script garbage collector and waits for it to complete.
func (s *Session) CollectGarbage(ctx context.Context) error {
	cmd := s.Profile().CollectGarbageWaitCompleteCommand
	if !profile.Supported(cmd) {
		return ErrNotSupported
	}
	s.setAction("collect garbage")

	return s.WriteLine(ctx, cmd)
}
