package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/arloliu/go-instrument/session"
	"github.com/arloliu/go-instrument/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resource = "TCPIP0::127.0.0.1::5025::SOCKET"

// echoTransport replies to every query with "1" and reports an idle status byte.
type echoTransport struct {
	pending []string
	timeout time.Duration
}

var _ transport.Transport = (*echoTransport)(nil)

func (t *echoTransport) ResourceName() string { return resource }

func (t *echoTransport) WriteLine(_ context.Context, text string) (string, error) {
	if len(text) > 0 && text[len(text)-1] == '?' {
		t.pending = append(t.pending, "1")
	}

	return text, nil
}

func (t *echoTransport) ReadLine(_ context.Context) (string, error) {
	if len(t.pending) == 0 {
		return "", transport.ErrTimeout
	}
	line := t.pending[0]
	t.pending = t.pending[1:]

	return line, nil
}

func (t *echoTransport) ReadStatusByte(context.Context) (int, error) { return 0, nil }
func (t *echoTransport) DiscardAllEvents() error                     { return nil }
func (t *echoTransport) Timeout() time.Duration                      { return t.timeout }
func (t *echoTransport) SetTimeout(d time.Duration)                  { t.timeout = d }
func (t *echoTransport) Close() error                                { return nil }

func TestNewCollector(t *testing.T) {
	ctx := context.Background()

	s, err := session.NewSession(&echoTransport{timeout: time.Second}, nil)
	require.NoError(t, err)
	defer s.Close()

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector("instrument", s)))

	require.NoError(t, s.WriteLine(ctx, "*CLS"))
	_, err = s.QueryLine(ctx, "*OPC?")
	require.NoError(t, err)
	_, err = s.ReadStatusByte(ctx)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			require.Len(t, m.GetLabel(), 1)
			assert.Equal(t, "resource", m.GetLabel()[0].GetName())
			assert.Equal(t, resource, m.GetLabel()[0].GetValue())

			if c := m.GetCounter(); c != nil {
				values[mf.GetName()] = c.GetValue()
			} else {
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}

	assert.Len(t, values, 9)
	assert.InDelta(t, 2, values["instrument_session_lines_written_total"], 0)
	assert.InDelta(t, 1, values["instrument_session_lines_read_total"], 0)
	assert.InDelta(t, 1, values["instrument_session_status_reads_total"], 0)
	assert.InDelta(t, 0, values["instrument_session_io_errors_total"], 0)
	assert.InDelta(t, 0, values["instrument_session_device_error_pending"], 0)
}

func TestNewCollector_DuplicateSession(t *testing.T) {
	s, err := session.NewSession(&echoTransport{timeout: time.Second}, nil)
	require.NoError(t, err)
	defer s.Close()

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewCollector("instrument", s)))
	require.Error(t, reg.Register(NewCollector("instrument", s)))
}
