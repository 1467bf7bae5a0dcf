package transport

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"go.bug.st/serial"
)

// serialTransport is an RS-232 link.
type serialTransport struct {
	*lineTransport
	port serial.Port
}

var (
	_ Transport     = (*serialTransport)(nil)
	_ DeviceClearer = (*serialTransport)(nil)
)

func openSerial(_ context.Context, res Resource, cfg *Config) (Transport, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate(),
		DataBits: cfg.DataBits(),
		Parity:   serialParity(cfg.Parity()),
		StopBits: serial.OneStopBit,
	}
	if cfg.StopBits() == 2 {
		mode.StopBits = serial.TwoStopBits
	}

	port, err := serial.Open(res.Path, mode)
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", res.Name, err)
	}

	cfg.Logger().Debug("serial port opened", "resource", res.Name, "path", res.Path, "baudRate", mode.BaudRate)

	return &serialTransport{
		lineTransport: newLineTransport(res.Name, &serialConn{port: port}, cfg),
		port:          port,
	}, nil
}

// DeviceClear flushes both directions of the port and any buffered input.
func (t *serialTransport) DeviceClear(_ context.Context) error {
	if t.closed.Load() {
		return ErrClosed
	}

	if err := t.port.ResetOutputBuffer(); err != nil {
		return fmt.Errorf("transport: device clear %s: %w", t.resource, err)
	}

	return t.DiscardAllEvents()
}

func serialParity(p Parity) serial.Parity {
	switch p {
	case ParityOdd:
		return serial.OddParity
	case ParityEven:
		return serial.EvenParity
	case ParityMark:
		return serial.MarkParity
	case ParitySpace:
		return serial.SpaceParity
	default:
		return serial.NoParity
	}
}

// serialConn adapts a serial port, which only knows a per-read timeout, to read deadlines.
type serialConn struct {
	port serial.Port
	// readDeadline holds unix nanoseconds, 0 for none.
	readDeadline atomic.Int64
}

func (c *serialConn) Read(p []byte) (int, error) {
	timeout := serial.NoTimeout
	if dl := c.readDeadline.Load(); dl != 0 {
		timeout = time.Until(time.Unix(0, dl))
		if timeout <= 0 {
			return 0, os.ErrDeadlineExceeded
		}
	}

	if err := c.port.SetReadTimeout(timeout); err != nil {
		return 0, err
	}

	n, err := c.port.Read(p)
	if n == 0 && err == nil {
		return 0, os.ErrDeadlineExceeded
	}

	return n, err
}

func (c *serialConn) Write(p []byte) (int, error) { return c.port.Write(p) }

func (c *serialConn) Close() error { return c.port.Close() }

func (c *serialConn) ResetInputBuffer() error { return c.port.ResetInputBuffer() }

func (c *serialConn) SetReadDeadline(t time.Time) error {
	if t.IsZero() {
		c.readDeadline.Store(0)
	} else {
		c.readDeadline.Store(t.UnixNano())
	}

	return nil
}

// SetWriteDeadline is a no-op; serial writes complete once the OS accepts the bytes.
func (c *serialConn) SetWriteDeadline(time.Time) error { return nil }
