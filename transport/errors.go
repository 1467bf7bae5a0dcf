package transport

import "errors"

var (
	// ErrInvalidResource indicates that a resource name could not be parsed.
	ErrInvalidResource = errors.New("transport: invalid resource name")

	// ErrUnsupportedResource indicates that no factory is registered for the resource interface type.
	ErrUnsupportedResource = errors.New("transport: unsupported resource")

	// ErrConfigNil indicates that a nil Config was provided.
	ErrConfigNil = errors.New("transport: config is nil")

	// ErrClosed indicates that the transport is closed.
	ErrClosed = errors.New("transport: closed")

	// ErrTimeout indicates that an I/O operation did not complete within the transport timeout.
	ErrTimeout = errors.New("transport: i/o timeout")

	// ErrInvalidStatusByte indicates that the status query reply is not a number in [0, 255].
	ErrInvalidStatusByte = errors.New("transport: invalid status byte")
)
