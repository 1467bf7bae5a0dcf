package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/go-instrument/deverr"
)

var (
	// ErrConfigNil indicates that a nil Config was provided.
	ErrConfigNil = errors.New("session: config is nil")

	// ErrTransportNil indicates that a nil transport was provided.
	ErrTransportNil = errors.New("session: transport is nil")

	// ErrSessionClosed indicates that the session is closed.
	ErrSessionClosed = errors.New("session: closed")

	// ErrNotSupported indicates that the active command language has no command for the operation.
	ErrNotSupported = errors.New("session: operation not supported by the command language")

	// ErrInvalidOperation indicates that a device error was pending before a checked write,
	// so the write was not attempted.
	ErrInvalidOperation = errors.New("session: invalid operation, device error pending")

	// ErrInvalidReply indicates that a reply could not be converted to the expected type.
	ErrInvalidReply = errors.New("session: invalid reply")
)

// DeviceFaultError is returned when the instrument reported errors and the caller asked to
// fail on them. It carries the diagnostics collected by the drain.
type DeviceFaultError struct {
	// Resource is the resource name of the instrument.
	Resource string
	// Report holds the compound message of every drained error, one per line.
	Report string
	// Last is the most recently drained error.
	Last deverr.DeviceError
	// Preamble describes the last action and messages exchanged before the drain.
	Preamble string
	// Pending is set when the status byte reported errors that were not drained because a
	// message was waiting in the output queue. Report and Last are empty then.
	Pending bool
}

func (e *DeviceFaultError) Error() string {
	if e.Pending {
		return fmt.Sprintf("session: device error on %s: errors queued behind a pending message, not drained", e.Resource)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "session: device error on %s: %s", e.Resource, e.Last.String())
	if n := strings.Count(e.Report, "\n"); n > 0 {
		fmt.Fprintf(&sb, " (+%d more)", n)
	}

	return sb.String()
}

// Lines returns the report split into one compound message per element.
func (e *DeviceFaultError) Lines() []string {
	if e.Report == "" {
		return nil
	}

	return strings.Split(e.Report, "\n")
}
