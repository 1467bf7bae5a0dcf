package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-instrument/internal/util"
	"github.com/arloliu/go-instrument/logger"
)

// aLongTimeAgo is a deadline in the past, used to unblock pending I/O on cancellation.
var aLongTimeAgo = time.Unix(1, 0)

// deadlineConn is the byte stream under a line transport.
type deadlineConn interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// inputResetter is implemented by streams able to flush their OS input buffer.
type inputResetter interface {
	ResetInputBuffer() error
}

// lineTransport implements the line codec shared by the built-in transports: every message
// is a line ended by the termination character, the status byte is the reply to a query.
type lineTransport struct {
	resource    string
	conn        deadlineConn
	reader      *bufio.Reader
	termination byte
	statusQuery string
	timeout     time.Duration
	closed      atomic.Bool

	// partial holds the bytes of a line whose read timed out before the termination arrived.
	partial strings.Builder
	logger      logger.Logger
}

func newLineTransport(resource string, conn deadlineConn, cfg *Config) *lineTransport {
	return &lineTransport{
		resource:    resource,
		conn:        conn,
		reader:      bufio.NewReader(conn),
		termination: cfg.Termination(),
		statusQuery: cfg.StatusQuery(),
		timeout:     cfg.Timeout(),
		logger:      cfg.Logger().With("resource", resource),
	}
}

func (t *lineTransport) ResourceName() string { return t.resource }

func (t *lineTransport) Timeout() time.Duration { return t.timeout }

func (t *lineTransport) SetTimeout(d time.Duration) {
	if d > 0 {
		t.timeout = d
	}
}

func (t *lineTransport) StatusQuery() string { return t.statusQuery }

func (t *lineTransport) SetStatusQuery(cmd string) {
	if cmd != "" {
		t.statusQuery = cmd
	}
}

func (t *lineTransport) WriteLine(ctx context.Context, text string) (string, error) {
	if t.closed.Load() {
		return "", ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line := strings.TrimRight(text, string(t.termination))
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, t.termination)

	if err := t.conn.SetWriteDeadline(t.deadline(ctx)); err != nil {
		return "", t.ioError(ctx, "write", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = t.conn.SetWriteDeadline(aLongTimeAgo) })
	defer stop()

	if _, err := t.conn.Write(buf); err != nil {
		return "", t.ioError(ctx, "write", err)
	}

	t.logger.Debug("line written", "text", util.EscapeControl(line))

	return line, nil
}

func (t *lineTransport) ReadLine(ctx context.Context) (string, error) {
	if t.closed.Load() {
		return "", ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := t.conn.SetReadDeadline(t.deadline(ctx)); err != nil {
		return "", t.ioError(ctx, "read", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = t.conn.SetReadDeadline(aLongTimeAgo) })
	defer stop()

	line, err := t.reader.ReadString(t.termination)
	if err != nil {
		t.partial.WriteString(line)
		return "", t.ioError(ctx, "read", err)
	}

	if t.partial.Len() > 0 {
		line = t.partial.String() + line
		t.partial.Reset()
	}

	line = strings.TrimSuffix(line, string(t.termination))
	line = strings.TrimRight(line, "\r\n")
	t.logger.Debug("line read", "text", util.EscapeControl(line))

	return line, nil
}

func (t *lineTransport) ReadStatusByte(ctx context.Context) (int, error) {
	if _, err := t.WriteLine(ctx, t.statusQuery); err != nil {
		return 0, err
	}

	reply, err := t.ReadLine(ctx)
	if err != nil {
		return 0, err
	}

	stb, err := util.ParseInt(reply)
	if err != nil || stb < 0 || stb > 0xFF {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatusByte, reply)
	}

	return stb, nil
}

func (t *lineTransport) DiscardAllEvents() error {
	if t.closed.Load() {
		return ErrClosed
	}

	t.partial.Reset()
	if n := t.reader.Buffered(); n > 0 {
		_, _ = t.reader.Discard(n)
	}

	if r, ok := t.conn.(inputResetter); ok {
		return r.ResetInputBuffer()
	}

	return nil
}

func (t *lineTransport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	t.logger.Debug("transport closed")

	return t.conn.Close()
}

func (t *lineTransport) deadline(ctx context.Context) time.Time {
	d := time.Now().Add(t.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(d) {
		d = dl
	}

	return d
}

func (t *lineTransport) ioError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
		return context.DeadlineExceeded
	}

	var netErr net.Error
	switch {
	case errors.Is(err, os.ErrDeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %s %s", ErrTimeout, op, t.resource)
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return fmt.Errorf("%w: %s %s: %w", ErrClosed, op, t.resource, err)
	default:
		return fmt.Errorf("transport: %s %s: %w", op, t.resource, err)
	}
}
