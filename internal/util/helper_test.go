package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneSlice(t *testing.T) {
	src := []int{1, 2, 3}
	clone := CloneSlice(src, 0)
	assert.Equal(t, src, clone)

	clone[0] = 9
	assert.Equal(t, 1, src[0])

	assert.Equal(t, []int{1, 2, 3, 0}, CloneSlice(src, 4))
}

func TestPopCount(t *testing.T) {
	assert.Equal(t, 0, PopCount(0))
	assert.Equal(t, 1, PopCount(0x10))
	assert.Equal(t, 2, PopCount(0x14))
	assert.Equal(t, 8, PopCount(0xFF))
	assert.Equal(t, 64, PopCount(-1))
}

func TestEscapeControl(t *testing.T) {
	assert.Equal(t, `*IDN?\n`, EscapeControl("*IDN?\n"))
	assert.Equal(t, `a\r\nb\tc`, EscapeControl("a\r\nb\tc"))
	assert.Equal(t, "plain", EscapeControl("plain"))
}

func TestTrimQuotes(t *testing.T) {
	assert.Equal(t, "No error", TrimQuotes(` "No error" `))
	assert.Equal(t, "Missing quote", TrimQuotes(`Missing quote`))
	assert.Equal(t, `"`, TrimQuotes(`"`))
	assert.Equal(t, "", TrimQuotes(`""`))
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		reply    string
		expected int
	}{
		{"1", 1},
		{" 64\n", 64},
		{"+32", 32},
		{"-285", -285},
		{"4.00000e+00", 4},
		{"1.28000e+02", 128},
		{`"16"`, 16},
	}

	for _, tt := range tests {
		v, err := ParseInt(tt.reply)
		require.NoError(t, err, tt.reply)
		assert.Equal(t, tt.expected, v, tt.reply)
	}

	for _, reply := range []string{"", "abc", "NaN", "Inf", "1,2"} {
		_, err := ParseInt(reply)
		require.ErrorIs(t, err, ErrNotNumeric, reply)
	}
}
