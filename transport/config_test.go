package transport

import (
	"testing"
	"time"

	"github.com/arloliu/go-instrument/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Timeout())
	assert.Equal(t, byte('\n'), cfg.Termination())
	assert.Equal(t, DefaultStatusQuery, cfg.StatusQuery())
	assert.Equal(t, 3*time.Second, cfg.DialTimeout())
	assert.Equal(t, 9600, cfg.BaudRate())
	assert.Equal(t, 8, cfg.DataBits())
	assert.Equal(t, 1, cfg.StopBits())
	assert.Equal(t, ParityNone, cfg.Parity())
	assert.NotNil(t, cfg.Logger())
}

func TestNewConfig_Options(t *testing.T) {
	l := logger.NewMockLogger()
	cfg, err := NewConfig(
		WithTimeout(5*time.Second),
		WithTermination('\r'),
		WithStatusQuery("_G.print(_G.status.condition)"),
		WithDialTimeout(time.Second),
		WithBaudRate(115200),
		WithDataBits(7),
		WithStopBits(2),
		WithParity(ParityEven),
		WithLogger(l),
	)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, byte('\r'), cfg.Termination())
	assert.Equal(t, "_G.print(_G.status.condition)", cfg.StatusQuery())
	assert.Equal(t, time.Second, cfg.DialTimeout())
	assert.Equal(t, 115200, cfg.BaudRate())
	assert.Equal(t, 7, cfg.DataBits())
	assert.Equal(t, 2, cfg.StopBits())
	assert.Equal(t, ParityEven, cfg.Parity())
	assert.Same(t, l, cfg.Logger())
}

func TestNewConfig_InvalidOptions(t *testing.T) {
	invalid := []Option{
		WithTimeout(0),
		WithTimeout(time.Hour),
		WithTermination(0),
		WithStatusQuery(""),
		WithDialTimeout(0),
		WithBaudRate(-1),
		WithDataBits(9),
		WithStopBits(3),
		WithParity("weird"),
		WithLogger(nil),
	}

	for _, opt := range invalid {
		_, err := NewConfig(opt)
		require.Error(t, err)
	}

	require.ErrorIs(t, WithTimeout(time.Second).apply(nil), ErrConfigNil)
}
