package deverr

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		number   int
		message  string
		level    int
		severity Severity
		isError  bool
	}{
		{
			name:     "tsp with level",
			raw:      `-285,"TSP syntax error at line 1",level=20`,
			number:   -285,
			message:  "TSP syntax error at line 1",
			level:    20,
			severity: Error,
			isError:  true,
		},
		{
			name:     "no error unquoted",
			raw:      `0,No error`,
			number:   0,
			message:  "No error",
			severity: Verbose,
		},
		{
			name:     "scpi quoted",
			raw:      `-113,"Undefined header"`,
			number:   -113,
			message:  "Undefined header",
			severity: Error,
			isError:  true,
		},
		{
			name:     "positive is warning",
			raw:      `+805,"Overrange"`,
			number:   805,
			message:  "Overrange",
			severity: Warning,
			isError:  true,
		},
		{
			name:     "comma inside quotes",
			raw:      `-222,"Data out of range, 5.0 > 2.0",level=1`,
			number:   -222,
			message:  "Data out of range, 5.0 > 2.0",
			level:    1,
			severity: Error,
			isError:  true,
		},
		{
			name:     "unbalanced quote in message",
			raw:      `1,"a"b",level=2`,
			number:   1,
			message:  `a"b`,
			level:    2,
			severity: Warning,
			isError:  true,
		},
		{
			name:     "unbalanced quote without level",
			raw:      `-100,"Bad "literal",extra`,
			number:   -100,
			message:  `Bad "literal`,
			severity: Error,
			isError:  true,
		},
		{
			name:     "malformed level",
			raw:      `-100,"Command error",lvl=3`,
			number:   -100,
			message:  "Command error",
			level:    0,
			severity: Error,
			isError:  true,
		},
		{
			name:     "unparsable number",
			raw:      `abc,"Garbled"`,
			number:   UnparsableErrorNumber,
			message:  "Garbled",
			severity: Error,
			isError:  true,
		},
		{
			name:     "bare number",
			raw:      `-350`,
			number:   -350,
			message:  `-350`,
			severity: Error,
			isError:  true,
		},
		{
			name:     "message only",
			raw:      `Queue overflow`,
			number:   0,
			message:  `Queue overflow`,
			severity: Verbose,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Parse(tt.raw)
			assert.Equal(t, tt.number, e.ErrorNumber)
			assert.Equal(t, tt.message, e.ErrorMessage)
			assert.Equal(t, tt.level, e.ErrorLevel)
			assert.Equal(t, tt.severity, e.Severity)
			assert.Equal(t, tt.isError, e.IsError())
			assert.Equal(t, tt.raw, e.CompoundErrorMessage)
			assert.False(t, e.Timestamp.IsZero())
		})
	}
}

func TestParse_EmbeddedLevelAndTimestamp(t *testing.T) {
	e := Parse(`-410,Query INTERRUPTED;2;2024-03-05T10:20:30Z`)

	assert.Equal(t, -410, e.ErrorNumber)
	assert.Equal(t, "Query INTERRUPTED", e.ErrorMessage)
	assert.Equal(t, 2, e.ErrorLevel)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC), e.Timestamp.UTC())
}

func TestParse_EmbeddedLevelDoesNotOverrideExplicitLevel(t *testing.T) {
	e := Parse(`-410,"Query INTERRUPTED;2",level=30`)

	assert.Equal(t, "Query INTERRUPTED", e.ErrorMessage)
	assert.Equal(t, 30, e.ErrorLevel)
}

func TestParse_BadEmbeddedTimestampUsesNow(t *testing.T) {
	before := time.Now()
	e := Parse(`-420,Query UNTERMINATED;1;yesterday`)

	assert.Equal(t, "Query UNTERMINATED", e.ErrorMessage)
	assert.Equal(t, 1, e.ErrorLevel)
	assert.False(t, e.Timestamp.Before(before))
}

func TestParse_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", " ", "\t\r\n"} {
		e := Parse(raw)
		assert.Equal(t, 0, e.ErrorNumber)
		assert.Empty(t, e.ErrorMessage)
		assert.Empty(t, e.CompoundErrorMessage)
		assert.Equal(t, Verbose, e.Severity)
		assert.False(t, e.IsError())
		assert.False(t, e.Timestamp.IsZero())
	}
}

func TestParse_ReplacesPreviousContent(t *testing.T) {
	e := Parse(`-285,"TSP syntax error",level=20`)
	e.Parse("")

	assert.Equal(t, 0, e.ErrorNumber)
	assert.Equal(t, 0, e.ErrorLevel)
	assert.False(t, e.IsError())
}

func TestParse_RoundTrip(t *testing.T) {
	messages := []string{"Undefined header", "Settings conflict", "x", "TSP syntax error at line 1", `Quote " inside`}
	numbers := []int{-350, -113, -1, 1, 42, 5005, math.MaxInt32}

	for _, n := range numbers {
		for _, msg := range messages {
			raw := BuildErrorMessage(n, msg)
			e := Parse(raw)
			assert.Equal(t, n, e.ErrorNumber, raw)
			assert.Equal(t, msg, e.ErrorMessage, raw)
			assert.True(t, e.IsError(), raw)
		}
	}
}

func TestParse_SeverityMapping(t *testing.T) {
	for n := -500; n <= 500; n += 7 {
		e := Parse(fmt.Sprintf("%d,msg", n))
		assert.Equal(t, SeverityOf(n), e.Severity, "n=%d", n)
		switch {
		case n < 0:
			assert.Equal(t, Error, e.Severity)
		case n > 0:
			assert.Equal(t, Warning, e.Severity)
		default:
			assert.Equal(t, Verbose, e.Severity)
		}
	}
}

func TestDeviceError_String(t *testing.T) {
	e := DeviceError{ErrorNumber: -113, ErrorMessage: "Undefined header"}
	assert.Equal(t, `-113,"Undefined header"`, e.String())

	e = Parse(`0,No error`)
	assert.Equal(t, `0,No error`, e.String())

	require.Equal(t, `0,"No error"`, NoErrorCompoundMessage)
	assert.False(t, New().IsError())
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "verbose", Verbose.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "unknown", Severity(9).String())
}
