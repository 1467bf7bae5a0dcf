package session

import (
	"context"
	"strings"

	"github.com/arloliu/go-instrument/deverr"
	"github.com/arloliu/go-instrument/internal/pool"
	"github.com/arloliu/go-instrument/profile"
	"github.com/arloliu/go-instrument/status"
)

// drainErrors is the error drainer of the status register.
func (s *Session) drainErrors(ctx context.Context, stb int) string {
	report, err := s.QueryAndReportDeviceErrors(ctx, stb)
	if err != nil {
		s.logger.Error("failed to drain the error queue", "stb", stb, "error", err)
	}

	return report
}

// QueryDeviceErrors drains the instrument error queue when stb signals queued errors, and returns
// the compound messages of the drained errors, one per line.
//
// Each call is one error episode: the local queue is emptied first. The published diagnostics,
// HasDeviceError, LastDeviceError, DeviceErrorReport and DeviceErrorPreamble, change only when
// the episode drained at least one error.
//
// A call made while a drain is in progress, e.g. from a status byte applied by the drain itself,
// returns an empty report and leaves the queue unchanged.
func (s *Session) QueryDeviceErrors(ctx context.Context, stb int) (string, error) {
	if !s.draining.CompareAndSwap(false, true) {
		s.logger.Debug("error queue drain already in progress", "stb", stb)
		return "", nil
	}
	defer s.draining.Store(false)

	if !s.register.Decode(status.CategoryError, stb) {
		return "", nil
	}

	s.errors.Reset()
	preamble := s.buildPreamble()

	if s.register.Decode(status.CategoryMeasurement, stb) {
		s.logger.Warn("measurement event coincides with queued errors, discarding unread data", "stb", stb)
		if _, err := s.DiscardUnreadData(ctx); err != nil {
			return "", err
		}
	}

	p := s.Profile()
	var lines []string
	var err error

	switch {
	case profile.Supported(p.ErrorDequeueCommand()):
		lines, err = s.dequeueErrors(ctx, p)
	case profile.Supported(p.DeviceErrorQueryCommand):
		lines, err = s.queryError(ctx, p.DeviceErrorQueryCommand)
	case profile.Supported(p.LastSystemErrorQueryCommand):
		lines, err = s.queryError(ctx, p.LastSystemErrorQueryCommand)
	default:
		return "", ErrNotSupported
	}

	if len(lines) == 0 {
		return "", err
	}

	report := strings.Join(lines, "\n")
	last, _ := s.errors.Last()

	s.mu.Lock()
	s.hasDeviceError = true
	s.lastDeviceError = last
	s.report = report
	s.reportLines = len(lines)
	s.preamble = preamble
	s.mu.Unlock()

	s.metrics.incDrainCount()
	s.metrics.addDeviceErrorCount(len(lines))

	return report, err
}

// dequeueErrors dequeues errors while the status byte signals queued errors and the last dequeued
// item was an error.
func (s *Session) dequeueErrors(ctx context.Context, p profile.Profile) ([]string, error) {
	cmd := p.ErrorDequeueCommand()

	var lines []string
	for {
		reply, err := s.QueryLine(ctx, cmd)
		if err != nil {
			return lines, err
		}

		e := deverr.Parse(reply)
		if !e.IsError() {
			// the error bit was set at the last sample, yet the queue reports no error:
			// some instruments do not self-clear the flag
			if profile.Supported(p.ClearErrorQueueCommand) {
				s.logger.Debug("error flag set with an empty error queue, clearing the queue")
				if err := s.WriteLine(ctx, p.ClearErrorQueueCommand); err != nil {
					return lines, err
				}
			}

			return lines, nil
		}

		s.errors.Enqueue(e)
		lines = append(lines, e.String())

		if err := pool.Sleep(ctx, s.cfg.StatusReadDelay()); err != nil {
			return lines, err
		}

		stb, err := s.ReadStatusByte(ctx)
		if err != nil {
			return lines, err
		}
		if !s.register.Decode(status.CategoryError, stb) {
			return lines, nil
		}
	}
}

// queryError reads a single error with a write-then-read query.
func (s *Session) queryError(ctx context.Context, cmd string) ([]string, error) {
	reply, err := s.QueryLine(ctx, cmd)
	if err != nil {
		return nil, err
	}

	e := deverr.Parse(reply)
	if !e.IsError() {
		return nil, nil
	}
	s.errors.Enqueue(e)

	return []string{e.String()}, nil
}

// QueryAndReportDeviceErrors drains like QueryDeviceErrors and logs the result: the last error
// whenever one was drained, and the whole report when more than one was.
func (s *Session) QueryAndReportDeviceErrors(ctx context.Context, stb int) (string, error) {
	report, err := s.QueryDeviceErrors(ctx, stb)
	if report == "" {
		return report, err
	}

	last := s.LastDeviceError()
	s.logger.Warn("device error",
		"number", last.ErrorNumber,
		"message", last.ErrorMessage,
		"level", last.ErrorLevel,
		"severity", last.Severity.String(),
	)

	if n := s.DeviceErrorReportLineCount(); n > 1 {
		s.logger.Warn("device error report", "count", n, "report", report, "preamble", s.DeviceErrorPreamble())
	}

	return report, err
}

// ClearErrorQueue sends the clear-error-queue command and empties the local queue.
// The last report and preamble stay available for diagnostics.
func (s *Session) ClearErrorQueue(ctx context.Context) error {
	cmd := s.Profile().ClearErrorQueueCommand
	if !profile.Supported(cmd) {
		return ErrNotSupported
	}

	if err := s.WriteLine(ctx, cmd); err != nil {
		return err
	}

	s.errors.Reset()
	s.mu.Lock()
	s.hasDeviceError = false
	s.mu.Unlock()

	return pool.Sleep(ctx, s.cfg.PostWriteDelay())
}

// QueryErrorQueueCount queries the number of errors queued in the instrument.
func (s *Session) QueryErrorQueueCount(ctx context.Context) (int, error) {
	cmd := s.Profile().ErrorQueueCountQueryCommand
	if !profile.Supported(cmd) {
		return 0, ErrNotSupported
	}

	return s.QueryInt(ctx, cmd)
}

// CheckDeviceErrors samples and applies the status byte, and returns a *DeviceFaultError when
// the drain it triggered found errors.
func (s *Session) CheckDeviceErrors(ctx context.Context) error {
	_, report, err := s.sampleAndApply(ctx)
	if err != nil {
		return err
	}

	if report == "" {
		return nil
	}

	return s.deviceFault(report)
}

func (s *Session) deviceFault(report string) *DeviceFaultError {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if report == "" {
		report = s.report
	}

	return &DeviceFaultError{
		Resource: s.tr.ResourceName(),
		Report:   report,
		Last:     s.lastDeviceError,
		Preamble: s.preamble,
	}
}

// HasDeviceError reports whether the last drain found errors that were not cleared since.
func (s *Session) HasDeviceError() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.hasDeviceError
}

// LastDeviceError returns the most recently drained error.
func (s *Session) LastDeviceError() deverr.DeviceError {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastDeviceError
}

// LastDeviceErrorMessage returns the compound message of the most recently queued error,
// or the "no error" message of the active profile when the queue is empty.
func (s *Session) LastDeviceErrorMessage() string {
	return s.errors.LastMessage()
}

// DeviceErrorReport returns the compound messages of the last drain that found errors.
func (s *Session) DeviceErrorReport() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.report
}

// DeviceErrorReportLineCount returns the number of lines of DeviceErrorReport.
func (s *Session) DeviceErrorReportLineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reportLines
}

// DeviceErrorPreamble describes the last action and messages before the last drain that found errors.
func (s *Session) DeviceErrorPreamble() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.preamble
}

// DeviceErrors returns the errors queued by the current episode.
func (s *Session) DeviceErrors() []deverr.DeviceError {
	return s.errors.Items()
}
