package deverr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/go-instrument/internal/util"
)

// Severity classifies a device error by the sign of its number.
type Severity int

const (
	// Verbose is the severity of "no error" entries.
	Verbose Severity = iota
	// Warning is the severity of positive, instrument specific, error numbers.
	Warning
	// Error is the severity of negative (SCPI standard) error numbers and unparsable replies.
	Error
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case Verbose:
		return "verbose"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// SeverityOf maps an error number to its severity.
func SeverityOf(number int) Severity {
	switch {
	case number < 0:
		return Error
	case number > 0:
		return Warning
	default:
		return Verbose
	}
}

const (
	// UnparsableErrorNumber is assigned when the number field of a reply cannot be parsed.
	UnparsableErrorNumber = math.MinInt

	// NoErrorMessage is the message of an empty error queue.
	NoErrorMessage = "No error"

	levelPrefix = "level="
)

// NoErrorCompoundMessage is the compound form of an empty error queue.
var NoErrorCompoundMessage = BuildErrorMessage(0, NoErrorMessage)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006/01/02 15:04:05.999999999",
	"01/02/2006 15:04:05",
}

// DeviceError is one entry of an instrument error queue.
type DeviceError struct {
	ErrorNumber          int
	ErrorMessage         string
	ErrorLevel           int
	CompoundErrorMessage string
	Severity             Severity
	Timestamp            time.Time
}

// New returns a "no error" DeviceError stamped now.
func New() DeviceError {
	return DeviceError{Severity: Verbose, Timestamp: time.Now()}
}

// Parse returns a DeviceError parsed from a compound error message.
func Parse(raw string) DeviceError {
	var e DeviceError
	e.Parse(raw)

	return e
}

// BuildErrorMessage builds the compound form `<number>,"<message>"`.
func BuildErrorMessage(number int, message string) string {
	return fmt.Sprintf("%d,\"%s\"", number, message)
}

// IsError reports whether the entry is an error rather than "no error".
func (e DeviceError) IsError() bool {
	return e.ErrorNumber != 0
}

// String returns the compound error message, rebuilding it when the entry was not parsed.
func (e DeviceError) String() string {
	if e.CompoundErrorMessage != "" {
		return e.CompoundErrorMessage
	}

	return BuildErrorMessage(e.ErrorNumber, e.ErrorMessage)
}

// Parse replaces the content of e with raw parsed as a compound error message.
//
// Empty or white space input resets e to an empty, non-error entry.
func (e *DeviceError) Parse(raw string) {
	now := time.Now()
	*e = DeviceError{Severity: Verbose, Timestamp: now}

	if strings.TrimSpace(raw) == "" {
		return
	}
	e.CompoundErrorMessage = raw

	tokens := splitFields(raw)
	if len(tokens) == 1 {
		// bare error number, or a message-only error
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			e.ErrorNumber = n
			e.Severity = SeverityOf(n)
		}
		e.ErrorMessage = raw

		return
	}

	if n, err := strconv.Atoi(strings.TrimSpace(tokens[0])); err == nil {
		e.ErrorNumber = n
		e.Severity = SeverityOf(n)
	} else {
		e.ErrorNumber = UnparsableErrorNumber
		e.Severity = Error
	}

	e.ErrorMessage = util.TrimQuotes(tokens[1])

	levelSet := false
	if len(tokens) > 2 {
		e.ErrorLevel, levelSet = parseLevel(tokens[2])
	}

	if !strings.Contains(e.ErrorMessage, ";") {
		return
	}

	parts := strings.SplitN(e.ErrorMessage, ";", 3)
	e.ErrorMessage = strings.TrimSpace(parts[0])
	if len(parts) > 1 && !levelSet {
		if level, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			e.ErrorLevel = level
		} else {
			e.ErrorLevel, _ = parseLevel(parts[1])
		}
	}
	if len(parts) > 2 {
		if ts, ok := parseTimestamp(parts[2]); ok {
			e.Timestamp = ts
		}
	}
}

// parseLevel parses the literal form `level=<int>`.
func parseLevel(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) <= len(levelPrefix) || !strings.EqualFold(s[:len(levelPrefix)], levelPrefix) {
		return 0, false
	}

	level, err := strconv.Atoi(strings.TrimSpace(s[len(levelPrefix):]))
	if err != nil {
		return 0, false
	}

	return level, true
}

func parseTimestamp(s string) (time.Time, bool) {
	s = util.TrimQuotes(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}

// splitFields splits a compound message into the number, the message and an optional third field.
//
// A trailing `level=<int>` field is split off from the right, so quote characters inside the
// message can't hide it. Otherwise a quoted message runs to its last double quote, and an unquoted
// message to the next comma.
func splitFields(raw string) []string {
	number, rest, found := strings.Cut(raw, ",")
	if !found {
		return []string{raw}
	}

	if i := strings.LastIndexByte(rest, ','); i >= 0 {
		if _, ok := parseLevel(rest[i+1:]); ok {
			return []string{number, rest[:i], rest[i+1:]}
		}
	}

	end := 0
	if strings.HasPrefix(strings.TrimSpace(rest), `"`) {
		end = strings.LastIndexByte(rest, '"')
	}
	if i := strings.IndexByte(rest[end:], ','); i >= 0 {
		return []string{number, rest[:end+i], rest[end+i+1:]}
	}

	return []string{number, rest}
}
