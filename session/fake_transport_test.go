//nolint:errcheck
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/go-instrument/transport"
	"github.com/stretchr/testify/mock"
)

const testResource = "TCPIP0::127.0.0.1::5025::SOCKET"

// scriptedTransport replays canned replies and status bytes.
//
// A reply list or status byte list is consumed one entry per use, and its last entry repeats.
type scriptedTransport struct {
	mu          sync.Mutex
	timeout     time.Duration
	statusQuery string
	replies     map[string][]string
	stbs        []int
	pending     []string
	written     []string
	readTimeout []time.Duration
	stbSamples  int
	discards    int
	closed      bool
}

var (
	_ transport.Transport             = (*scriptedTransport)(nil)
	_ transport.StatusQueryConfigurer = (*scriptedTransport)(nil)
)

func newScriptedTransport() *scriptedTransport {
	return &scriptedTransport{
		timeout:     time.Second,
		statusQuery: transport.DefaultStatusQuery,
		replies:     make(map[string][]string),
	}
}

func (t *scriptedTransport) reply(cmd string, replies ...string) *scriptedTransport {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.replies[cmd] = append(t.replies[cmd], replies...)

	return t
}

func (t *scriptedTransport) statusBytes(stbs ...int) *scriptedTransport {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stbs = append(t.stbs, stbs...)

	return t
}

func (t *scriptedTransport) unread(lines ...string) *scriptedTransport {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending = append(t.pending, lines...)

	return t
}

func (t *scriptedTransport) Written() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]string(nil), t.written...)
}

func (t *scriptedTransport) ResourceName() string { return testResource }

func (t *scriptedTransport) WriteLine(_ context.Context, text string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return "", transport.ErrClosed
	}

	t.written = append(t.written, text)
	if replies := t.replies[text]; len(replies) > 0 {
		t.pending = append(t.pending, replies[0])
		if len(replies) > 1 {
			t.replies[text] = replies[1:]
		}
	}

	return text, nil
}

func (t *scriptedTransport) ReadLine(_ context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return "", transport.ErrClosed
	}

	t.readTimeout = append(t.readTimeout, t.timeout)
	if len(t.pending) == 0 {
		return "", fmt.Errorf("%w: read %s", transport.ErrTimeout, testResource)
	}

	line := t.pending[0]
	t.pending = t.pending[1:]

	return line, nil
}

func (t *scriptedTransport) ReadStatusByte(_ context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, transport.ErrClosed
	}

	t.stbSamples++
	if len(t.stbs) == 0 {
		return 0, nil
	}

	stb := t.stbs[0]
	if len(t.stbs) > 1 {
		t.stbs = t.stbs[1:]
	}

	return stb, nil
}

func (t *scriptedTransport) DiscardAllEvents() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.discards++

	return nil
}

func (t *scriptedTransport) Timeout() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.timeout
}

func (t *scriptedTransport) SetTimeout(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.timeout = d
}

func (t *scriptedTransport) StatusQuery() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.statusQuery
}

func (t *scriptedTransport) SetStatusQuery(cmd string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.statusQuery = cmd
}

func (t *scriptedTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true

	return nil
}

// MockTransport implements transport.Transport and transport.DeviceClearer for testing.
type MockTransport struct {
	mock.Mock
}

var (
	_ transport.Transport     = (*MockTransport)(nil)
	_ transport.DeviceClearer = (*MockTransport)(nil)
)

func (m *MockTransport) ResourceName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockTransport) WriteLine(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *MockTransport) ReadLine(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTransport) ReadStatusByte(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTransport) DiscardAllEvents() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTransport) DeviceClear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransport) Timeout() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *MockTransport) SetTimeout(d time.Duration) {
	m.Called(d)
}

func (m *MockTransport) Close() error {
	args := m.Called()
	return args.Error(0)
}
