// Package util holds small helpers shared by the go-instrument packages.
package util

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clone size if cloneSize is 0.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

// PopCount returns the number of bits set in v. Negative values count their
// two's complement bits.
func PopCount(v int) int {
	return bits.OnesCount64(uint64(v)) //nolint:gosec
}

var escapeReplacer = strings.NewReplacer(
	"\\", `\\`,
	"\r", `\r`,
	"\n", `\n`,
	"\t", `\t`,
	"\x00", `\0`,
)

// EscapeControl makes line terminators and other control characters visible,
// for displaying sent and received instrument messages.
func EscapeControl(s string) string {
	return escapeReplacer.Replace(s)
}

// TrimQuotes removes surrounding white space and one pair of surrounding double quotes.
func TrimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	return strings.TrimSpace(s)
}

// ErrNotNumeric is returned by ParseInt for replies that carry no number.
var ErrNotNumeric = errors.New("util: reply is not numeric")

// ParseInt converts a numeric instrument reply to an int.
//
// Lua based instruments print numbers in floating point notation, e.g. "4.00000e+00",
// so a reply that is not a plain integer is parsed as a float and truncated.
func ParseInt(reply string) (int, error) {
	reply = TrimQuotes(reply)
	if v, err := strconv.Atoi(reply); err == nil {
		return v, nil
	}

	f, err := strconv.ParseFloat(reply, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, reply)
	}

	return int(f), nil
}
